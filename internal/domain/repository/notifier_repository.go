package repository

import (
	"context"

	"rssDigestBot/internal/domain/entity"
)

type NotifierRepository interface {
	Send(ctx context.Context, msg *entity.Message) error
}
