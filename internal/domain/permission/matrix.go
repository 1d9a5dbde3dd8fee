// Package permission modela la matriz de permisos por rol: para cada módulo fijo
// de la aplicación, cinco banderas de capacidad.
//
// La matriz es metadato editado por un administrador; este paquete no decide
// acceso a nada. Todas las funciones son puras y devuelven matrices nuevas.
package permission

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Module nombre de módulo de la aplicación.
type Module string

// Módulos reconocidos (conjunto cerrado).
const (
	Dashboard      Module = "dashboard"
	Task           Module = "task"
	ProjectTracker Module = "projectTracker"
	Onboarding     Module = "onboarding"
	Attendance     Module = "attendance"
)

// Flag nombre de una bandera de capacidad.
type Flag string

// Banderas reconocidas.
const (
	FullAccess Flag = "fullAccess"
	View       Flag = "view"
	Create     Flag = "create"
	Edit       Flag = "edit"
	Delete     Flag = "delete"
)

var (
	modules = []Module{Dashboard, Task, ProjectTracker, Onboarding, Attendance}
	flags   = []Flag{FullAccess, View, Create, Edit, Delete}
)

// Capabilities registro de cinco banderas de un módulo.
type Capabilities struct {
	FullAccess bool `json:"fullAccess"`
	View       bool `json:"view"`
	Create     bool `json:"create"`
	Edit       bool `json:"edit"`
	Delete     bool `json:"delete"`
}

// Get devuelve el valor de una bandera; false si no es reconocida.
func (c Capabilities) Get(f Flag) bool {
	switch f {
	case FullAccess:
		return c.FullAccess
	case View:
		return c.View
	case Create:
		return c.Create
	case Edit:
		return c.Edit
	case Delete:
		return c.Delete
	}
	return false
}

// with devuelve una copia con la bandera f fijada a v. ok=false si f no es reconocida.
func (c Capabilities) with(f Flag, v bool) (Capabilities, bool) {
	switch f {
	case FullAccess:
		c.FullAccess = v
	case View:
		c.View = v
	case Create:
		c.Create = v
	case Edit:
		c.Edit = v
	case Delete:
		c.Delete = v
	default:
		return c, false
	}
	return c, true
}

// Any true si al menos una bandera está activa.
func (c Capabilities) Any() bool {
	return c.FullAccess || c.View || c.Create || c.Edit || c.Delete
}

// Matrix módulo → capacidades. Una matriz construida por este paquete contiene
// siempre los cinco módulos.
type Matrix map[Module]Capabilities

// Partial forma cruda recibida del API: módulos y banderas pueden faltar.
type Partial map[string]map[string]bool

// Modules devuelve los módulos en orden canónico.
func Modules() []Module {
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

// Flags devuelve las banderas en orden canónico.
func Flags() []Flag {
	out := make([]Flag, len(flags))
	copy(out, flags)
	return out
}

// IsModule indica si m es uno de los cinco módulos reconocidos.
func IsModule(m Module) bool {
	for _, k := range modules {
		if k == m {
			return true
		}
	}
	return false
}

// IsFlag indica si f es una bandera reconocida.
func IsFlag(f Flag) bool {
	for _, k := range flags {
		if k == f {
			return true
		}
	}
	return false
}

// Default matriz con los cinco módulos y todas las banderas en false.
func Default() Matrix {
	m := make(Matrix, len(modules))
	for _, k := range modules {
		m[k] = Capabilities{}
	}
	return m
}

// Reset equivale a Default; se usa para el reinicio explícito a mitad de edición.
func Reset() Matrix { return Default() }

// MergeWithDefaults superpone partial sobre Default. Módulos ausentes quedan en false,
// banderas ausentes de un módulo presente también. Claves desconocidas se descartan.
// No modifica partial.
func MergeWithDefaults(partial Partial) Matrix {
	m := Default()
	for name, set := range partial {
		mod := Module(name)
		if !IsModule(mod) {
			continue
		}
		caps := m[mod]
		for flagName, v := range set {
			if next, ok := caps.with(Flag(flagName), v); ok {
				caps = next
			}
		}
		m[mod] = caps
	}
	return m
}

// Toggle devuelve una matriz nueva con exactamente una bandera invertida.
// Si module o flag no son reconocidos devuelve una copia sin cambios.
func Toggle(m Matrix, module Module, flag Flag) Matrix {
	out := Clone(m)
	if !IsModule(module) {
		return out
	}
	caps := out[module]
	if next, ok := caps.with(flag, !caps.Get(flag)); ok {
		out[module] = next
	}
	return out
}

// HasAny true si al menos una bandera de cualquier módulo está activa.
func HasAny(m Matrix) bool {
	for _, caps := range m {
		if caps.Any() {
			return true
		}
	}
	return false
}

// Clone copia la matriz garantizando los cinco módulos.
func Clone(m Matrix) Matrix {
	out := Default()
	for k, v := range m {
		if IsModule(k) {
			out[k] = v
		}
	}
	return out
}

// ToPartial convierte la matriz a la forma cruda del API (útil para comparar o serializar).
func ToPartial(m Matrix) Partial {
	p := make(Partial, len(modules))
	for _, mod := range modules {
		caps := m[mod]
		set := make(map[string]bool, len(flags))
		for _, f := range flags {
			set[string(f)] = caps.Get(f)
		}
		p[string(mod)] = set
	}
	return p
}

// Granted lista "modulo.bandera" activos, en orden canónico.
func Granted(m Matrix) []string {
	var out []string
	for _, mod := range modules {
		caps := m[mod]
		for _, f := range flags {
			if caps.Get(f) {
				out = append(out, string(mod)+"."+string(f))
			}
		}
	}
	return out
}

// Label etiqueta legible de un módulo o bandera: "projectTracker" → "Project Tracker".
func Label(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	// cases.Caser guarda estado: uno por llamada.
	return cases.Title(language.Spanish).String(b.String())
}
