package actor

import (
	"context"
	"errors"
	"time"

	"CardBattle/internal/battle/actors"
	"CardBattle/internal/battle/app"
	"CardBattle/internal/shared/actor/messages"
	"CardBattle/internal/shared/transport"
	"CardBattle/internal/shared/utils"
	"CardBattle/modules/kit/tracex"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 战斗 actor 系统的入口：manager 按战斗 id 路由到各自的战斗 actor。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	ids     *utils.Snowflake
}

func NewRuntime(deps actors.Deps, ids *utils.Snowflake, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
		ids:     ids,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		r.root.Stop(r.manager)
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// Ask 投递请求并等待应答；业务错误原样返回，便于接口层按码映射。
func (r *Runtime) Ask(ctx context.Context, msg messages.BattleMessage) (any, error) {
	if msg == nil {
		return nil, &RuntimeError{
			Code:    transport.InvalidParam,
			Message: "battle request 不能为空",
		}
	}

	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}

	reply, ok := res.(*messages.Reply)
	if !ok || reply == nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 返回类型非法",
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return reply.Data, nil
}

// Create 分配雪花 id 并创建战斗，formation 为空时棋盘为空。
func (r *Runtime) Create(ctx context.Context, formation string) (int64, app.Snapshot, error) {
	if r == nil || r.ids == nil {
		return 0, app.Snapshot{}, &RuntimeError{Code: transport.SystemError, Message: "battle id 生成器未初始化"}
	}
	id := r.ids.NextID()
	data, err := r.Ask(ctx, &messages.CreateBattle{BattleBaseMessage: Base(ctx, id), Formation: formation})
	if err != nil {
		// 布阵失败时回收已创建的 actor
		if errors.Is(err, app.ErrBattleExists) {
			return 0, app.Snapshot{}, err
		}
		_, _ = r.Ask(ctx, &messages.CloseBattle{BattleBaseMessage: Base(ctx, id)})
		return 0, app.Snapshot{}, err
	}
	snap, _ := data.(app.Snapshot)
	return id, snap, nil
}

// Snapshot 读取战斗快照。
func (r *Runtime) Snapshot(ctx context.Context, id int64) (app.Snapshot, error) {
	data, err := r.Ask(ctx, &messages.GetSnapshot{BattleBaseMessage: Base(ctx, id)})
	if err != nil {
		return app.Snapshot{}, err
	}
	snap, ok := data.(app.Snapshot)
	if !ok {
		return app.Snapshot{}, &RuntimeError{Code: transport.SystemError, Message: "snapshot 类型非法"}
	}
	return snap, nil
}

// Watch 订阅战斗事件流。
func (r *Runtime) Watch(ctx context.Context, id int64) (*actors.Watch, error) {
	data, err := r.Ask(ctx, &messages.WatchBattle{BattleBaseMessage: Base(ctx, id)})
	if err != nil {
		return nil, err
	}
	w, ok := data.(*actors.Watch)
	if !ok || w == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "watch 类型非法"}
	}
	return w, nil
}

// Base 从 ctx 取 trace id 拼出消息头。
func Base(ctx context.Context, id int64) messages.BattleBaseMessage {
	m := messages.BattleBaseMessage{Battle: id}
	if ctx != nil {
		if t, ok := tracex.TraceIDFrom(ctx); ok {
			m.TraceID = t
		}
	}
	return m
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
