package storage

import "dexray/internal/model"

// Storage defines a sink for computed position snapshots.
type Storage interface {
	PutPositionBatch(positions []model.PositionWithValues) error
}
