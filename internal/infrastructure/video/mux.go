package video

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Asset is a created video asset and its first playback id, if any.
type Asset struct {
	ID         string
	PlaybackID string
}

type playbackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type assetResponse struct {
	Data struct {
		ID          string       `json:"id"`
		Status      string       `json:"status"`
		PlaybackIDs []playbackID `json:"playback_ids"`
	} `json:"data"`
}

type createAssetRequest struct {
	Input          []assetInput `json:"input"`
	PlaybackPolicy []string     `json:"playback_policy"`
}

type assetInput struct {
	URL string `json:"url"`
}

// MuxClient creates and deletes assets through the Mux video API.
type MuxClient struct {
	client *resty.Client
	logger *slog.Logger
}

func NewMuxClient(baseURL, tokenID, tokenSecret string, logger *slog.Logger) *MuxClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(tokenID, tokenSecret).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &MuxClient{client: client, logger: logger}
}

// CreateAsset ingests sourceURL with a public playback policy.
func (m *MuxClient) CreateAsset(ctx context.Context, sourceURL string) (Asset, error) {
	var out assetResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(createAssetRequest{
			Input:          []assetInput{{URL: sourceURL}},
			PlaybackPolicy: []string{"public"},
		}).
		SetResult(&out).
		Post("/video/v1/assets")
	if err != nil {
		return Asset{}, fmt.Errorf("mux create asset: %w", err)
	}
	if resp.IsError() {
		m.logger.Error("mux create asset failed", "status", resp.StatusCode(), "body", resp.String())
		return Asset{}, fmt.Errorf("mux create asset: status %d", resp.StatusCode())
	}
	if out.Data.ID == "" {
		return Asset{}, fmt.Errorf("mux create asset: empty id")
	}

	asset := Asset{ID: out.Data.ID}
	if len(out.Data.PlaybackIDs) > 0 {
		asset.PlaybackID = out.Data.PlaybackIDs[0].ID
	}
	return asset, nil
}

// DeleteAsset removes the asset. An asset that is already gone counts as
// deleted.
func (m *MuxClient) DeleteAsset(ctx context.Context, assetID string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetPathParam("assetID", assetID).
		Delete("/video/v1/assets/{assetID}")
	if err != nil {
		return fmt.Errorf("mux delete asset %s: %w", assetID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		m.logger.Warn("mux asset already deleted", "asset_id", assetID)
		return nil
	}
	if resp.IsError() {
		return fmt.Errorf("mux delete asset %s: status %d", assetID, resp.StatusCode())
	}
	return nil
}
