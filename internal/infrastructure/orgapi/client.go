// Package orgapi implementa los puertos de repositorio sobre el API REST remoto del ERP
// (sucursales, departamentos, roles, usuarios). Cada llamada lleva
// "Authorization: Token <t>"; sin token la petición no se envía.
package orgapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/domain"
)

// DefaultMaxResponseBytes tope por defecto del cuerpo de respuesta (16 MB).
const DefaultMaxResponseBytes int64 = 16 << 20

// Client cliente HTTP del API remoto. Usa net/http de la stdlib.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	creds            ports.CredentialProvider
	log              zerolog.Logger
	maxResponseBytes int64
}

// Option ajusta el cliente al construirlo.
type Option func(*Client)

// WithMaxResponseBytes fija el tope del cuerpo de respuesta; n <= 0 mantiene el valor por defecto.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseBytes = n
		}
	}
}

// NewClient construye el cliente. baseURL suele ser "http://127.0.0.1:8000/api".
func NewClient(baseURL string, timeout time.Duration, creds ports.CredentialProvider, log zerolog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpClient:       &http.Client{Timeout: timeout},
		creds:            creds,
		log:              log,
		maxResponseBytes: DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call describe una petición al API.
type call struct {
	method string
	path   string // siempre con barra final, p.ej. "/roles/12/"
	query  url.Values
	body   interface{}
	// preferField campo de error de validación que se prefiere como mensaje (p.ej. "role").
	preferField string
}

// do ejecuta la llamada y devuelve el cuerpo crudo de una respuesta 2xx.
func (c *Client) do(ctx context.Context, in call) ([]byte, error) {
	token, err := ports.RequireToken(ctx, c.creds)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + in.path
	if len(in.query) > 0 {
		endpoint += "?" + in.query.Encode()
	}

	var reader io.Reader
	if in.body != nil {
		payload, err := json.Marshal(in.body)
		if err != nil {
			return nil, fmt.Errorf("orgapi: serializar request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("orgapi: crear HTTP request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.APIError{Err: fmt.Errorf("%w: timeout o cancelación: %w", domain.ErrUpstream, ctx.Err())}
		}
		return nil, &domain.APIError{Err: fmt.Errorf("%w: llamada HTTP fallida: %w", domain.ErrUpstream, err)}
	}
	defer resp.Body.Close()

	// Se lee un byte de más para distinguir "justo en el tope" de "truncado".
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, &domain.APIError{Status: resp.StatusCode, Err: fmt.Errorf("%w: leer respuesta: %w", domain.ErrUpstream, err)}
	}
	if int64(len(raw)) > c.maxResponseBytes {
		c.log.Warn().Str("path", in.path).Int64("limit", c.maxResponseBytes).Str("request_id", requestID).Msg("orgapi: respuesta excede el límite")
		return nil, &domain.APIError{
			Status:  resp.StatusCode,
			Message: "respuesta excede el límite",
			Err:     fmt.Errorf("%w: respuesta de %s excede %d bytes", domain.ErrUpstream, in.path, c.maxResponseBytes),
		}
	}

	c.log.Debug().
		Str("method", in.method).
		Str("path", in.path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("latency", time.Since(start)).
		Msg("orgapi")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(raw, in.preferField),
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			apiErr.Err = domain.ErrUnauthorized
		case http.StatusNotFound:
			apiErr.Err = domain.ErrNotFound
		}
		return nil, apiErr
	}
	return raw, nil
}

// getJSON GET + decodificación en out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	raw, err := c.do(ctx, call{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("orgapi: deserializar %s: %w", path, err)
	}
	return nil
}

// decodeList acepta la lista cruda o un objeto que la envuelve bajo key
// (el API no es consistente: /roles/ devuelve {"roles": [...]} y /branches/ la lista).
func decodeList[T any](raw []byte, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	out := []T{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	inner, ok := wrapper[key]
	if !ok || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(inner, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeOptional decodifica el cuerpo de una escritura si viene; cuerpo vacío → nil.
func decodeOptional[T any](raw []byte) (*T, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// extractMessage devuelve el primer mensaje legible del cuerpo de error:
// campo preferido → message → error → detail → non_field_errors → primer campo (orden alfabético).
func extractMessage(raw []byte, preferField string) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	keys := []string{}
	if preferField != "" {
		keys = append(keys, preferField)
	}
	keys = append(keys, "message", "error", "detail", "non_field_errors")
	for _, k := range keys {
		if msg := firstText(body[k]); msg != "" {
			return msg
		}
	}
	rest := make([]string, 0, len(body))
	for k := range body {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		if msg := firstText(body[k]); msg != "" {
			return k + ": " + msg
		}
	}
	return ""
}

// firstText extrae un string o el primer string de una lista.
func firstText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				return item
			}
		}
	}
	return ""
}

// IsUnauthorized true si err proviene de un 401/403 o de un token ausente.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
