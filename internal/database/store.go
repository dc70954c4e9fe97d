package database

import (
	"github.com/jmoiron/sqlx"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

// Store bundles the repositories behind one domain.Store.
type Store struct {
	*ComplaintRepository
	*CommentRepository
	*EntityRepository
}

// NewStore builds every repository over db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		ComplaintRepository: NewComplaintRepository(db),
		CommentRepository:   NewCommentRepository(db),
		EntityRepository:    NewEntityRepository(db),
	}
}

var _ domain.Store = (*Store)(nil)
