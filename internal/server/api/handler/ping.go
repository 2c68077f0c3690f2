package handler

import (
	"log/slog"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/server/api"
)

// Ping identifies the server.
func Ping(version string) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		return respond(res, apitypes.PingResponse{Server: "padbind", Version: version})
	}
}
