package blob

import (
	"context"
	"encoding/base64"
)

// DataURIStore ничего не сохраняет отдельно: содержимое кодируется
// в самоописывающий data URL прямо в записи диагноза.
type DataURIStore struct{}

func NewDataURIStore() *DataURIStore { return &DataURIStore{} }

func (DataURIStore) Driver() Driver { return DriverDataURI }

func (DataURIStore) Put(_ context.Context, _ string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (DataURIStore) Delete(context.Context, string) error { return nil }
