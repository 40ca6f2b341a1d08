package schwab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StreamerInfo identifies the streamer endpoint and the per-session identifiers
// stamped on every command.
type StreamerInfo struct {
	SocketURL  string `json:"streamerSocketUrl"`
	CustomerID string `json:"schwabClientCustomerId"`
	CorrelID   string `json:"schwabClientCorrelId"`
	Channel    string `json:"schwabClientChannel"`
	FunctionID string `json:"schwabClientFunctionId"`
}

// UserPreferenceResponse is the subset of the trader user-preference document this client reads.
type UserPreferenceResponse struct {
	Accounts []struct {
		AccountNumber  string `json:"accountNumber"`
		PrimaryAccount bool   `json:"primaryAccount"`
		Type           string `json:"type"`
		NickName       string `json:"nickName"`
	} `json:"accounts"`
	StreamerInfo []StreamerInfo `json:"streamerInfo"`
}

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RESTClient) HTTPClient() *http.Client {
	return c.httpClient
}

// GetUserPreference fetches the trader user-preference document with the given bearer token.
func (c *RESTClient) GetUserPreference(ctx context.Context, token string) (*UserPreferenceResponse, error) {
	endpoint := c.baseURL + "/trader/v1/userPreference"

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("schwab error %d: %s", resp.StatusCode, body)
	}

	var prefs UserPreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&prefs); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &prefs, nil
}

// GetStreamerInfo returns the first streamer endpoint listed in the user preferences.
func (c *RESTClient) GetStreamerInfo(ctx context.Context, token string) (StreamerInfo, error) {
	prefs, err := c.GetUserPreference(ctx, token)
	if err != nil {
		return StreamerInfo{}, err
	}
	if len(prefs.StreamerInfo) == 0 {
		return StreamerInfo{}, errors.New("user preference has no streamer info")
	}

	info := prefs.StreamerInfo[0]
	if info.SocketURL == "" {
		return StreamerInfo{}, errors.New("user preference has an empty streamer socket url")
	}
	return info, nil
}
