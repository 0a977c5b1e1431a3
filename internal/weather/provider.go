package weather

import (
	"context"
)

// Source abstracts where a dataset document comes from (a local file, an
// HTTP endpoint). Fetch returns the decoded, validated dataset or a
// *DataLoadError.
type Source interface {
	Name() string
	Location() string
	Fetch(ctx context.Context) (Dataset, error)
}
