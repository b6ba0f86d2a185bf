package app

import (
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"accessgate/pkg/serrors"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// maxSessionRequestBytes bounds the sign-in request body.
const maxSessionRequestBytes = 16 << 10

type signInRequest struct {
	Email    string
	Password string
}

func decodeSignInRequest(b []byte) (signInRequest, error) {
	var req signInRequest
	d := jx.DecodeBytes(b)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "email":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "email")
			}
			req.Email = v
		case "password":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "password")
			}
			req.Password = v
		default:
			return d.Skip()
		}

		return nil
	}); err != nil {
		return signInRequest{}, errors.Wrap(err, "decode sign-in request")
	}

	return req, nil
}

func encodeSession(e *jx.Encoder, user *domain.User) {
	e.ObjStart()
	e.FieldStart("signedIn")
	e.Bool(user != nil)
	e.FieldStart("user")
	if user == nil {
		e.Null()
	} else {
		e.ObjStart()
		e.FieldStart("uid")
		e.Str(user.UID)
		e.FieldStart("email")
		e.Str(user.Email)
		e.FieldStart("displayName")
		e.Str(user.DisplayName)
		e.FieldStart("emailVerified")
		e.Bool(user.EmailVerified)
		e.FieldStart("role")
		e.Str(string(user.Role))
		e.ObjEnd()
	}
	e.ObjEnd()
}

func encodeError(e *jx.Encoder, err error) {
	code := serrors.ErrInternal.Error()
	msg := "internal error"
	var se *serrors.Error
	if errors.As(err, &se) && se.Kind() != nil {
		code = se.Kind().Error()
		if serrors.HTTPStatus(err) < http.StatusInternalServerError {
			msg = se.Error()
		}
	}

	e.ObjStart()
	e.FieldStart("error")
	e.ObjStart()
	e.FieldStart("code")
	e.Str(code)
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()
	e.ObjEnd()
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func (a *App) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	status := serrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "session request failed", zap.Error(err))
	}
	writeJSON(w, status, func(e *jx.Encoder) { encodeError(e, err) })
}

// serveSession implements GET (state), POST (sign in) and DELETE (sign out).
func (a *App) serveSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		user := a.CurrentUser()
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSession(e, user) })
	case http.MethodPost:
		b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSessionRequestBytes))
		if err != nil {
			a.writeSessionError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body"))

			return
		}
		req, err := decodeSignInRequest(b)
		if err != nil {
			a.writeSessionError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

			return
		}

		user, err := a.deps.Auth.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			a.writeSessionError(w, r, err)

			return
		}
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSession(e, user) })
	case http.MethodDelete:
		if err := a.deps.Auth.SignOut(r.Context()); err != nil {
			a.writeSessionError(w, r, err)

			return
		}
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSession(e, nil) })
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		err := serrors.With(serrors.ErrBadRequest, "method %s not allowed", r.Method)
		writeJSON(w, http.StatusMethodNotAllowed, func(e *jx.Encoder) { encodeError(e, err) })
	}
}
