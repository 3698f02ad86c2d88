package allocation

import (
	"context"
	"fmt"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// ItemLocker exclusión mutua opcional por línea de recepción. Release libera el candado.
// Si el candado está tomado por otro proceso la implementación devuelve un error que envuelve domain.ErrConflict.
type ItemLocker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// NoopLocker no bloquea nada (comportamiento por defecto: sin exclusión por línea).
type NoopLocker struct{}

// Acquire siempre concede el candado.
func (NoopLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// ItemLockKey clave del candado de una línea.
func ItemLockKey(parentID entity.ReceivingID, itemID entity.LineItemID) string {
	return fmt.Sprintf("allocation:item:%s:%s", parentID, itemID)
}

type actorKey struct{}

// WithActor adjunta al contexto el usuario que ejecuta la operación (auditoría).
func WithActor(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom usuario adjunto al contexto, o "" si no hay.
func ActorFrom(ctx context.Context) string {
	s, _ := ctx.Value(actorKey{}).(string)
	return s
}

// SlipRenderer genera el acta de asignación de una línea (PDF).
type SlipRenderer interface {
	RenderSlip(ctx context.Context, slip *Slip) ([]byte, error)
}
