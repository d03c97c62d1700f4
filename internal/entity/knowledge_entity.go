package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeDocument struct {
	Id        uuid.UUID
	Name      string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type KnowledgeEmbedding struct {
	Id         uuid.UUID
	Document   string
	Embedding  []float32
	DocumentId uuid.UUID
	ChunkIndex int
}
