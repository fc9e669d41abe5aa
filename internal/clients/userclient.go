// Package clients holds HTTP clients for the sibling services.
package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// UserClient asks the user service whether an account still exists. The
// product service uses it to reject tokens whose subject was deleted after
// issuance.
type UserClient struct {
	baseURL string
	client  *http.Client
}

func NewUserClient(baseURL string) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// IsValidAccount reports whether the account id resolves to a live,
// non-deleted account. A 404 means no; anything other than 200/404 is an
// error the caller should treat as "unable to verify".
func (c *UserClient) IsValidAccount(ctx context.Context, accountID int64) (bool, error) {
	url := fmt.Sprintf("%s/api/users/%d", c.baseURL, accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach user service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("user service returned status %d", resp.StatusCode)
}
