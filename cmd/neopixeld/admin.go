package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"gopkg.in/typ.v4/sync2"
	"libdb.so/hrt"

	"github.com/zachmoshe/neopixeld"
)

type adminHandler struct {
	*chi.Mux
	controller *neopixeld.Controller
	streams    map[string]*neopixeld.StreamServer
	logger     *slog.Logger

	effects sync2.Map[string, *neopixeld.Effect]
}

func newAdminHandler(controller *neopixeld.Controller, streams map[string]*neopixeld.StreamServer, logger *slog.Logger) *adminHandler {
	h := &adminHandler{
		Mux:        chi.NewRouter(),
		controller: controller,
		streams:    streams,
		logger:     logger,
	}

	h.Use(hrt.Use(hrt.Opts{
		Encoder: hrt.CombinedEncoder{
			Encoder: hrt.JSONEncoder,
			Decoder: hrt.URLDecoder,
		},
		ErrorWriter: hrt.TextErrorWriter,
	}))

	h.Post("/effects", hrt.Wrap(h.addEffect))
	h.Post("/effects/cancel", hrt.Wrap(h.cancelEffect))
	h.Get("/effects", hrt.Wrap(h.listEffects))
	h.Post("/kick-all", hrt.Wrap(h.kickAll))

	return h
}

type addEffectRequest struct {
	Device   string  `query:"device"`
	Family   string  `query:"family"`
	Color    string  `query:"color"`
	Duration float64 `query:"duration"`
	Reversed bool    `query:"reversed"`
	PingPong bool    `query:"pingpong"`

	Sigma           float64 `query:"sigma"`
	DecayFactor     float64 `query:"decay_factor"`
	BaseColor       string  `query:"base_color"`
	AdditionalColor string  `query:"additional_color"`
	Freq            float64 `query:"freq"`
	CycleTime       float64 `query:"cycle_time"`
}

// spec builds the EffectSpec the request describes. Zero-value
// parameters fall through to the family defaults.
func (req addEffectRequest) spec() (neopixeld.EffectSpec, error) {
	moving := neopixeld.MovingParams{
		Duration: secs(req.Duration),
		Reversed: req.Reversed,
		PingPong: req.PingPong,
	}

	var err error
	if moving.Color, err = parseColor(req.Color); err != nil {
		return nil, err
	}

	switch req.Family {
	case "pixel":
		return neopixeld.MovingPixelSpec{MovingParams: moving}, nil

	case "gaussian":
		return neopixeld.GaussianSpec{MovingParams: moving, Sigma: req.Sigma}, nil

	case "decay":
		return neopixeld.DecaySpec{MovingParams: moving, DecayFactor: req.DecayFactor}, nil

	case "sine":
		base, err := parseColor(req.BaseColor)
		if err != nil {
			return nil, err
		}
		additional, err := parseColor(req.AdditionalColor)
		if err != nil {
			return nil, err
		}
		return neopixeld.SineSpec{
			BaseColor:       base,
			AdditionalColor: additional,
			Freq:            req.Freq,
			CycleTime:       secs(req.CycleTime),
		}, nil

	default:
		return nil, fmt.Errorf("unknown effect family %q", req.Family)
	}
}

type addEffectResponse struct {
	Token string `json:"token"`
}

func (h *adminHandler) addEffect(ctx context.Context, req addEffectRequest) (addEffectResponse, error) {
	spec, err := req.spec()
	if err != nil {
		return addEffectResponse{}, err
	}

	effect, err := h.controller.AddEffect(req.Device, spec)
	if err != nil {
		return addEffectResponse{}, err
	}

	token := uuid.Must(uuid.NewV7()).String()
	h.effects.Store(token, effect)

	// Forget the token once the effect finishes on its own.
	go func() {
		effect.Wait(context.Background())
		h.effects.Delete(token)
	}()

	h.logger.Info(
		"effect added",
		"device", req.Device,
		"family", req.Family,
		"token", token)

	return addEffectResponse{Token: token}, nil
}

type cancelEffectRequest struct {
	Token string `query:"token"`
}

func (h *adminHandler) cancelEffect(ctx context.Context, req cancelEffectRequest) (hrt.None, error) {
	effect, ok := h.effects.LoadAndDelete(req.Token)
	if !ok {
		return hrt.Empty, fmt.Errorf("unknown effect token %q", req.Token)
	}

	effect.Cancel()

	h.logger.Info(
		"effect cancelled",
		"token", req.Token)

	return hrt.Empty, nil
}

type listEffectsResponse struct {
	Tokens []string `json:"tokens"`
}

func (h *adminHandler) listEffects(ctx context.Context, _ hrt.None) (listEffectsResponse, error) {
	resp := listEffectsResponse{Tokens: []string{}}
	h.effects.Range(func(token string, _ *neopixeld.Effect) bool {
		resp.Tokens = append(resp.Tokens, token)
		return true
	})
	sort.Strings(resp.Tokens)
	return resp, nil
}

type kickAllRequest struct {
	Reason string `query:"reason"`
}

func (h *adminHandler) kickAll(ctx context.Context, req kickAllRequest) (hrt.None, error) {
	for _, stream := range h.streams {
		stream.KickAllViewers(req.Reason)
	}
	return hrt.Empty, nil
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// parseColor parses "255,0,0" into a Color. Empty input means the
// family default.
func parseColor(s string) (neopixeld.Color, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	color := make(neopixeld.Color, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad color component %q: %w", part, err)
		}
		color[i] = v
	}
	return color, nil
}
