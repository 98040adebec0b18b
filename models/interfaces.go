package models

import "context"

// RemoteClassifier is the external scoring service the engine tries first
type RemoteClassifier interface {
	Classify(ctx context.Context, input PredictionInput, mission MissionModel) (PredictionResult, error)
}
