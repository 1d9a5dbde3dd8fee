package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Ref referencia a otra entidad (clave foránea). El API remoto no es consistente:
// a veces envía el id crudo (2 o "2"), a veces un objeto {"id": 2, ...} y a veces null.
// Ref es el único punto donde se normalizan esas formas; el resto del código solo ve ID.
type Ref struct {
	ID   int64
	Name string // solo cuando el API envía el objeto anidado con nombre
}

// RefOf construye una referencia a partir de un id.
func RefOf(id int64) Ref { return Ref{ID: id} }

// IsZero true si la referencia está vacía.
func (r Ref) IsZero() bool { return r.ID == 0 }

type refObject struct {
	ID             json.RawMessage `json:"id"`
	Name           string          `json:"name"`
	DepartmentName string          `json:"department_name"`
	Role           string          `json:"role"`
}

// UnmarshalJSON acepta número, string numérico, objeto con id o null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var obj refObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("ref: objeto inválido: %w", err)
		}
		id, err := parseID(obj.ID)
		if err != nil {
			return err
		}
		r.ID = id
		r.Name = firstNonEmpty(obj.Name, obj.DepartmentName, obj.Role)
		return nil
	}
	id, err := parseID(data)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// MarshalJSON escribe el id crudo (null si está vacío), que es lo que espera el API al escribir.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(r.ID, 10)), nil
}

func parseID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("ref: id inválido: %w", err)
		}
		return ParseID(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("ref: id inválido %s: %w", string(raw), err)
	}
	return ParseID(n.String())
}

// ParseID convierte un id textual ("", " 3 ") a int64; vacío → 0.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ref: id no numérico %q", s)
	}
	return id, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
