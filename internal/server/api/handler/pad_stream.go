package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/log"
	"github.com/Alia5/padbind/internal/padnet"
	"github.com/Alia5/padbind/internal/server/api"
	apierror "github.com/Alia5/padbind/internal/server/api/error"
)

func writeLine(conn net.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = conn.Write(append(b, '\n'))
	return err
}

// PadStream attaches the connection as the feeder of a port. After the
// attach line the client sends 20 byte frames until it closes.
func PadStream(e *padnet.Enumerator, raw log.RawLogger) api.StreamHandlerFunc {
	return func(req *api.Request, conn net.Conn, logger *slog.Logger) error {
		defer conn.Close()

		port, err := parsePort(req)
		if err != nil {
			_ = writeLine(conn, apierror.WrapError(err))
			return err
		}
		feed, err := e.Attach(port)
		if err != nil {
			if errors.Is(err, padnet.ErrPortBusy) {
				err = apierror.ErrConflict(err.Error())
			}
			_ = writeLine(conn, apierror.WrapError(err))
			return err
		}
		defer feed.Close()

		if err := writeLine(conn, apitypes.StreamAttachResponse{Port: port}); err != nil {
			return fmt.Errorf("write attach: %w", err)
		}
		logger.Info("pad attached", "port", port)
		defer logger.Info("pad detached", "port", port)

		if err := padnet.Serve(conn, feed, raw, logger); err != nil {
			if req.Ctx.Err() != nil {
				return nil
			}
			return err
		}
		return nil
	}
}
