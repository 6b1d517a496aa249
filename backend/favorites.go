package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
)

func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func favoritePath(flightID string) string {
	return fmt.Sprintf(favoritePathTmpl, url.PathEscape(flightID))
}

// ListFavorites returns the signed-in user's favorite flights, normalised.
func (c *Client) ListFavorites(ctx context.Context, token string) ([]flights.FlightRecord, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, request{method: http.MethodGet, path: favoritesPath, token: token})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, upstreamError(resp)
	}
	records, _ := flights.NormalizeList(resp.Body)
	return records, nil
}

func (c *Client) AddFavorite(ctx context.Context, token, flightID string) error {
	return c.favorite(ctx, http.MethodPost, token, flightID)
}

func (c *Client) RemoveFavorite(ctx context.Context, token, flightID string) error {
	return c.favorite(ctx, http.MethodDelete, token, flightID)
}

func (c *Client) favorite(ctx context.Context, method, token, flightID string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	if strings.TrimSpace(flightID) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "missing flight id")
	}
	resp, err := c.do(ctx, request{method: method, path: favoritePath(strings.TrimSpace(flightID)), token: token})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return upstreamError(resp)
	}
	return nil
}
