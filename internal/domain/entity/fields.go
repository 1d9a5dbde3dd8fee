package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BranchIDList conjunto ordenado de identificadores de sucursal (available_branches).
// En el formulario es texto separado por comas; en el payload es una lista sin vacíos ni duplicados.
type BranchIDList []string

// ParseBranchIDList normaliza "1, 2,,3 , 2" → ["1","2","3"].
func ParseBranchIDList(s string) BranchIDList {
	out := BranchIDList{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// String forma textual del formulario: "1, 2, 3".
func (l BranchIDList) String() string {
	return strings.Join(l, ", ")
}

// UnmarshalJSON acepta lista de strings/números/objetos con id, o un string separado por comas.
func (l *BranchIDList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = BranchIDList{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = ParseBranchIDList(s)
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("available_branches: %w", err)
	}
	parts := make([]string, 0, len(items))
	for _, raw := range items {
		var ref Ref
		if raw = bytes.TrimSpace(raw); len(raw) > 0 && raw[0] == '"' {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			parts = append(parts, s)
			continue
		}
		if err := json.Unmarshal(raw, &ref); err != nil {
			return fmt.Errorf("available_branches: %w", err)
		}
		if !ref.IsZero() {
			parts = append(parts, fmt.Sprint(ref.ID))
		}
	}
	*l = ParseBranchIDList(strings.Join(parts, ","))
	return nil
}

// FlexString texto que el API puede enviar como string, número o null (p.ej. reporting_to).
type FlexString string

// UnmarshalJSON acepta string, número o null.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("valor no textual: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}
