package wizard

import (
	"context"

	"servihogar/entity"
	"servihogar/internal/wizard"
)

type Core interface {
	Start(ctx context.Context, vertical, deviceID string, identity *entity.Identity) (*wizard.Session, error)
	Get(id string) (*wizard.Session, bool)
	Abandon(ctx context.Context, id string)
}
