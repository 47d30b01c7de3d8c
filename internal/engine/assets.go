package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-analogclock/internal/config"
)

// AssetLoader resolves a named graphic. Implementations live in the host.
type AssetLoader interface {
	Load(name string) (Asset, error)
}

// LoadAssets resolves the dial and the three hands from loader.
// Any missing or empty graphic fails the whole load with ErrAssetUnavailable:
// the clock cannot be drawn without all four.
func LoadAssets(loader AssetLoader) (AssetSet, error) {
	if loader == nil {
		return AssetSet{}, fmt.Errorf("%w: no loader", ErrAssetUnavailable)
	}

	var loaded [partCount]Asset
	for _, p := range Parts {
		a, err := loader.Load(p.String())
		if err != nil {
			return AssetSet{}, fmt.Errorf("%w %q: %w", ErrAssetUnavailable, p.String(), err)
		}
		if err := checkAsset(a); err != nil {
			return AssetSet{}, fmt.Errorf("%w %q: %w", ErrAssetUnavailable, p.String(), err)
		}
		loaded[p] = a
	}

	slog.Debug(config.MsgAssetsLoaded, config.LogKeyComponent, config.CompEngine)

	return AssetSet{
		Dial:       loaded[PartDial],
		HourHand:   loaded[PartHourHand],
		MinuteHand: loaded[PartMinuteHand],
		SecondHand: loaded[PartSecondHand],
	}, nil
}

// Validate checks that every part is present and has a positive intrinsic size.
func (a AssetSet) Validate() error {
	for _, p := range Parts {
		if err := checkAsset(a.Get(p)); err != nil {
			return fmt.Errorf("%w %q: %w", ErrAssetUnavailable, p.String(), err)
		}
	}
	return nil
}

func checkAsset(a Asset) error {
	if a == nil {
		return errors.New("nil asset")
	}
	if w, h := a.IntrinsicSize(); w <= 0 || h <= 0 {
		return errors.New(config.ErrAssetEmpty)
	}
	return nil
}
