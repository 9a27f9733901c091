package shop

import (
	"context"
	"fmt"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/settings"
)

// SettingsWriter is the persistence mirror settings.Store is hydrated from
// and written back to, so an operator override survives a restart. Kept as
// a narrow interface here (rather than importing the persistence package
// directly) so the application layer still depends only on ports.
type SettingsWriter interface {
	Save(ctx context.Context, key, value string) error
}

// GetSettingQuery reads one named scalar from the §4.1 config store (CLI
// `admin settings get`).
type GetSettingQuery struct {
	Key string
}

// GetSettingResponse wraps the raw string value of a setting.
type GetSettingResponse struct {
	Key   string
	Value string
}

// GetSettingHandler handles GetSettingQuery.
type GetSettingHandler struct {
	settings *settings.Store
}

// NewGetSettingHandler creates a new settings-read handler.
func NewGetSettingHandler(store *settings.Store) *GetSettingHandler {
	return &GetSettingHandler{settings: store}
}

// Handle executes the settings-read query.
func (h *GetSettingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetSettingQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if !settings.IsRecognizedKey(query.Key) {
		return nil, &settings.ErrUnrecognizedKey{Key: query.Key}
	}

	return &GetSettingResponse{Key: query.Key, Value: h.settings.String(query.Key)}, nil
}

// SetSettingCommand writes one named scalar through the store's single
// mutator (§4.1), mirroring the write to persistence so it survives a
// restart.
type SetSettingCommand struct {
	Key   string
	Value string
}

// SetSettingResponse confirms the write.
type SetSettingResponse struct {
	Key   string
	Value string
}

// SetSettingHandler handles SetSettingCommand.
type SetSettingHandler struct {
	settings *settings.Store
	writer   SettingsWriter
}

// NewSetSettingHandler creates a new settings-write handler.
func NewSetSettingHandler(store *settings.Store, writer SettingsWriter) *SetSettingHandler {
	return &SetSettingHandler{settings: store, writer: writer}
}

// Handle executes the settings-write command.
func (h *SetSettingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetSettingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if !settings.IsRecognizedKey(cmd.Key) {
		return nil, &settings.ErrUnrecognizedKey{Key: cmd.Key}
	}

	h.settings.Set(cmd.Key, cmd.Value)
	if err := h.writer.Save(ctx, cmd.Key, cmd.Value); err != nil {
		return nil, err
	}

	return &SetSettingResponse{Key: cmd.Key, Value: cmd.Value}, nil
}
