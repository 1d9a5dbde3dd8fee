// Package pdf implementa el reporte imprimible de la matriz de permisos de un rol.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del rol + descripción  │  Fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  UBICACIÓN: Sucursal / Departamento                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Módulo | Full Access | View | Create | Edit | Delete │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: permisos otorgados                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/domain/permission"
)

var _ ports.PermissionReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGranted = &props.Color{Red: 0, Green: 120, Blue: 60}
)

const (
	grantedMark = "Sí"
	deniedMark  = "—"
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.PermissionReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador; author aparece en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// GeneratePermissionReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePermissionReport(_ context.Context, r *ports.PermissionReport) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Permisos del rol "+r.Role.Role, true).
		WithAuthor(nonEmpty(g.author, "orgadmin"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(locationRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(matrixRows(r.Matrix)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRows(r.Matrix)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre y descripción del rol (izq), fecha de emisión (der).
func headerRow(r *ports.PermissionReport) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(nonEmpty(r.Role.Role, fmt.Sprintf("Rol #%d", r.Role.ID)), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(r.Role.Description, deniedMark), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("MATRIZ DE PERMISOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Rol #%d", r.Role.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// locationRow: sucursal y departamento dueños del rol.
func locationRow(r *ports.PermissionReport) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("UBICACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Sucursal: %s   |   Departamento: %s",
				nonEmpty(r.BranchName, deniedMark),
				nonEmpty(r.DepartmentName, deniedMark),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: módulo (4 columnas) + una columna por bandera.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{h("Módulo", 2, align.Left)}
	for _, f := range permission.Flags() {
		cols = append(cols, h(permission.Label(string(f)), 2, align.Center))
	}
	return row.New(8).Add(cols...)
}

// matrixRows: una fila por módulo en orden canónico.
func matrixRows(m permission.Matrix) []core.Row {
	m = permission.Clone(m)
	rows := make([]core.Row, 0, len(permission.Modules()))
	for _, mod := range permission.Modules() {
		caps := m[mod]
		cols := []core.Col{col.New(2).Add(text.New(
			permission.Label(string(mod)),
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		))}
		for _, f := range permission.Flags() {
			cols = append(cols, col.New(2).Add(flagCell(caps.Get(f))))
		}
		rows = append(rows, row.New(7).Add(cols...))
	}
	return rows
}

func flagCell(granted bool) core.Component {
	if granted {
		return text.New(grantedMark, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: colorGranted,
		})
	}
	return text.New(deniedMark, props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray})
}

// summaryRows: total de permisos otorgados y su lista.
func summaryRows(m permission.Matrix) []core.Row {
	granted := permission.Granted(m)
	total := len(permission.Modules()) * len(permission.Flags())
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(fmt.Sprintf("PERMISOS OTORGADOS: %d de %d", len(granted), total), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	if len(granted) == 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("El rol no tiene permisos activos.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
		return rows
	}
	for _, chunk := range chunkStrings(granted, 6) {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(strings.Join(chunk, ", "), props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// chunkStrings divide items en grupos de máximo n elementos.
func chunkStrings(items []string, n int) [][]string {
	var parts [][]string
	for len(items) > n {
		parts = append(parts, items[:n])
		items = items[n:]
	}
	if len(items) > 0 {
		parts = append(parts, items)
	}
	return parts
}
