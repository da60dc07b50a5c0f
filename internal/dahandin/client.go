package dahandin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/WooDaeYoon/dahandinworld/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// Client talks to the dahandin openapi, the authoritative source for earned
// cookie totals, badges and class rosters. Every call carries the teacher's
// API key in the X-API-Key header. Responses for student totals are cached
// briefly in Redis when a client is configured.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *redis.Client
	ttl     time.Duration
}

// ErrUpstream wraps a non-2xx upstream response so handlers can surface the
// original status code.
type ErrUpstream struct {
	StatusCode int
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("dahandin upstream error: status %d", e.StatusCode)
}

// Badge is one badge slot from the points service.
type Badge struct {
	ImgURL   string `json:"imgUrl"`
	Title    string `json:"title"`
	HasBadge bool   `json:"hasBadge"`
}

// StudentTotal is the authoritative per-student record.
// Cookie is the lifetime earned total (drives the level); TotalCookie is the
// currently spendable total before shop spending is subtracted.
type StudentTotal struct {
	Code        string           `json:"code"`
	Number      int              `json:"number"`
	Name        string           `json:"name"`
	Cookie      int64            `json:"cookie"`
	UsedCookie  int64            `json:"usedCookie"`
	TotalCookie int64            `json:"totalCookie"`
	ChocoChips  int64            `json:"chocoChips"`
	Badges      map[string]Badge `json:"badges"`
}

// ClassInfo is one class roster entry.
type ClassInfo struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	TotalCookies int64  `json:"totalCookies"`
	Cookies      int64  `json:"cookies"`
	UsedCookies  int64  `json:"usedCookies"`
}

type envelope struct {
	Result  bool            `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewClient(baseURL string, cache *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		ttl:     30 * time.Second,
	}
}

// GetStudentTotal fetches the authoritative record for one student.
func (c *Client) GetStudentTotal(ctx context.Context, apiKey, code string) (*StudentTotal, error) {
	cacheKey := "dahandin:total:" + code

	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var st StudentTotal
			if json.Unmarshal(raw, &st) == nil {
				return &st, nil
			}
		}
	}

	var st StudentTotal
	if err := c.get(ctx, apiKey, "get/student/total", url.Values{"code": {code}}, &st); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if raw, err := json.Marshal(&st); err == nil {
			if err := c.cache.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
				logger.Warn("dahandin cache write failed", "error", err)
			}
		}
	}

	return &st, nil
}

// GetClassList fetches the classes visible to the API key.
func (c *Client) GetClassList(ctx context.Context, apiKey string) ([]ClassInfo, error) {
	var list []ClassInfo
	if err := c.get(ctx, apiKey, "get/class/list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetStudentList fetches the full roster for the API key's class.
func (c *Client) GetStudentList(ctx context.Context, apiKey string) ([]StudentTotal, error) {
	var list []StudentTotal
	if err := c.get(ctx, apiKey, "get/student/list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) get(ctx context.Context, apiKey, path string, query url.Values, out interface{}) error {
	target := c.baseURL + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ErrUpstream{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	if !env.Result {
		if env.Message == "" {
			env.Message = "request rejected"
		}
		return errors.New("dahandin: " + env.Message)
	}
	return json.Unmarshal(env.Data, out)
}

// Forward proxies an arbitrary GET to the points service, copying the
// upstream status and body through. Used by the /api/proxy handler.
func (c *Client) Forward(ctx context.Context, apiKey, path, rawQuery string) (int, []byte, error) {
	target := c.baseURL + "/" + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-API-Key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// HasBadge reports whether the student currently holds a badge with the
// given title.
func (st *StudentTotal) HasBadge(title string) bool {
	for _, b := range st.Badges {
		if b.Title == title && b.HasBadge {
			return true
		}
	}
	return false
}

// EarnedLifetime is the total the student has ever earned (level source).
func (st *StudentTotal) EarnedLifetime() int64 { return st.Cookie }

// EarnedTotal is the spendable total before shop spending is subtracted.
func (st *StudentTotal) EarnedTotal() int64 { return st.TotalCookie }
