package views

import (
	"accessgate/internal/router"
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"accessgate/pkg/storage"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// securityLogsPageSize is the number of access events per page.
const securityLogsPageSize = 50

type qrBody struct {
	Code   *domain.QRCode
	Status domain.QRCodeStatus
}

func (s *Set) viewQRCode(w http.ResponseWriter, r *http.Request, c Context) {
	id := c.Match.Params[router.ParamDocumentID]
	code, err := s.deps.Storage.QRCodeByID(r.Context(), id)
	if err != nil {
		logger.Error(r.Context(), "could not fetch qr code", zap.String("documentId", id), zap.Error(err))
		s.Error(w, r, c, http.StatusInternalServerError, "The QR code could not be loaded.")

		return
	}
	if code == nil {
		s.Error(w, r, c, http.StatusNotFound, "This QR code does not exist.")

		return
	}

	s.render(r.Context(), w, http.StatusOK, "qr", s.page(c, titleOf(router.ViewViewQRCode), qrBody{
		Code:   code,
		Status: code.Status(s.deps.Now()),
	}))
}

type logsBody struct {
	Events   []domain.AccessEvent
	NextHref string
}

func (s *Set) securityLogs(w http.ResponseWriter, r *http.Request, c Context) {
	var cursor storage.AccessEventCursor
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		parsed, err := storage.ParseAccessEventCursor(raw)
		if err != nil {
			s.Error(w, r, c, http.StatusBadRequest, "The page cursor is invalid.")

			return
		}
		cursor = parsed
	}

	page, err := s.deps.Storage.AccessEvents(r.Context(), cursor, securityLogsPageSize)
	if err != nil {
		logger.Error(r.Context(), "could not fetch access events", zap.Error(err))
		s.Error(w, r, c, http.StatusInternalServerError, "The security logs could not be loaded.")

		return
	}

	body := logsBody{Events: page.Events}
	if page.NextCursor != nil {
		href, _ := c.Router.URL(router.NameSecurityLogs, nil)
		body.NextHref = href + "?cursor=" + url.QueryEscape(page.NextCursor.String())
	}

	s.render(r.Context(), w, http.StatusOK, "logs", s.page(c, titleOf(router.ViewSecurityLogs), body))
}
