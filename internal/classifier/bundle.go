package classifier

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"

	"github.com/teamsignal/burnout-engine/internal/models"
)

// bundle is the serialized form of a fitted model. Everything needed to
// score rows travels together, so a restore replaces the whole fit as a
// unit or not at all.
type bundle struct {
	Forest         *forest
	Scaler         *standardScaler
	Codec          *labelCodec
	FeatureColumns []string
	Info           models.ModelInfo
}

// Export serializes the fitted model into a gzip-compressed gob blob
func (m *Model) Export() ([]byte, error) {
	if !m.trained {
		return nil, ErrNotTrained
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	err := gob.NewEncoder(zw).Encode(bundle{
		Forest:         m.forest,
		Scaler:         m.scaler,
		Codec:          m.codec,
		FeatureColumns: m.features,
		Info:           m.info,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode model bundle: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress model bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore rebuilds a model from an Export blob. The result predicts
// immediately and reports a restored source in its metadata.
func Restore(blob []byte) (*Model, error) {
	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to open model bundle: %w", err)
	}
	defer zr.Close()

	var b bundle
	if err := gob.NewDecoder(zr).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode model bundle: %w", err)
	}
	if b.Forest == nil || b.Scaler == nil || b.Codec == nil || len(b.FeatureColumns) == 0 {
		return nil, fmt.Errorf("model bundle is incomplete")
	}

	m := New(DefaultConfig())
	m.forest = b.Forest
	m.scaler = b.Scaler
	m.codec = b.Codec
	m.features = b.FeatureColumns
	m.info = b.Info
	m.info.Source = models.ModelSourceRestored
	m.trained = true
	return m, nil
}
