package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

type CallbackService struct {
	Throttle Throttle
	Notifier Notifier
	Log      logrus.FieldLogger
	Now      Clock
}

// Request forwards a callback request to the operator, at most once per
// phone number per throttle window. A throttle backend failure lets the
// request through.
func (s CallbackService) Request(ctx context.Context, req models.CallbackRequest) (models.CallbackRequest, error) {
	req.Name = utils.NormalizeSpace(req.Name)
	req.Phone = utils.TrimOrEmpty(req.Phone)
	req.Route = utils.NormalizeSpace(req.Route)
	if err := validateStruct(req); err != nil {
		return models.CallbackRequest{}, err
	}
	if len(utils.NormalizePhone(req.Phone)) < 7 {
		return models.CallbackRequest{}, domain.ValidationError{Field: "phone", Msg: "is too short"}
	}

	throttle := s.Throttle
	if throttle == nil {
		throttle = allowAll{}
	}
	ok, err := throttle.Allow(ctx, "callback:"+utils.NormalizePhone(req.Phone))
	if err != nil {
		if s.Log != nil {
			s.Log.WithError(err).WithField("request_id", utils.RequestIDFrom(ctx)).
				Warn("callback throttle unavailable")
		}
		ok = true
	}
	if !ok {
		return models.CallbackRequest{}, domain.ThrottledError{Msg: "a callback for this number was already requested, please wait"}
	}

	if s.Now != nil {
		req.RequestedAt = s.Now().UTC()
	} else {
		req.RequestedAt = utils.NowUTC()
	}
	utils.LogEvent(s.Log, utils.RequestIDFrom(ctx), "callback", "request",
		fmt.Sprintf("callback requested by %s", req.Name))
	if s.Notifier != nil {
		s.Notifier.CallbackRequested(ctx, req)
	}
	return req, nil
}
