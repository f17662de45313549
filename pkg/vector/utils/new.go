// Package vectorutils constructs similarity index drivers by provider name.
package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/vector"
	"github.com/inkstoneco/inkstone/pkg/vector/chroma"
	"github.com/inkstoneco/inkstone/pkg/vector/memory"
	"github.com/inkstoneco/inkstone/pkg/vector/qdrant"
)

type NewDriverOpts struct {
	ProviderType string
	TargetURL    string
	Collection   string
	Dimensions   uint
	Logger       *zap.Logger
}

func NewDriver(o *NewDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.Collection,
		}, o.Logger)
	case "qdrant":
		return qdrant.NewDriver(qdrant.Config{
			Target:         o.TargetURL,
			CollectionName: o.Collection,
			Dimensions:     uint64(o.Dimensions),
		}, o.Logger)
	case "memory":
		return memory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
