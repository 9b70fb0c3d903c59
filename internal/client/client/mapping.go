package client

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
)

// FieldMapping names, for one remote schema, the field that carries each
// Employee attribute. Empty names mean the schema lacks the attribute.
type FieldMapping struct {
	ID             string
	Name           string
	Code           string
	Title          string
	Location       string
	Phone          string
	CorporatePhone string
	Email          string
	Company        string
	Manager        string
	Stage          string
	Sex            string
	NationalID     string
	Brand          string
	Area           string
	WorkerType     string
	Address        string
	Sector         string
	TenureDays     string
	TenureMonths   string
	HireDate       string
	// Status holds the employment status compared against the active value.
	Status string
}

// AirtableMapping is the snake_case schema of the staff base.
var AirtableMapping = FieldMapping{
	ID:             "id",
	Name:           "nombre",
	Code:           "codigo_trabajador",
	Title:          "cargo",
	Location:       "centro_costo_copia",
	Phone:          "celular",
	CorporatePhone: "celular_corporativo",
	Email:          "correo",
	Company:        "empresa",
	Manager:        "jefe_directo",
	Stage:          "etapa",
	Sex:            "sexo",
	NationalID:     "cedula",
	Brand:          "marca",
	Area:           "area",
	WorkerType:     "tipo_trabajador",
	Address:        "direccion_domicilio",
	Sector:         "secto_domicilio",
	TenureDays:     "permanencia_dias",
	TenureMonths:   "permanencia_meses",
	HireDate:       "fecha_ingreso",
	Status:         "estado",
}

// LegacyMapping is the display-label schema of older bases.
var LegacyMapping = FieldMapping{
	ID:             "id",
	Name:           "Nombre",
	Code:           "Código Trabajador",
	Title:          "Cargo",
	Location:       "centro_costo_copia",
	Phone:          "Celular",
	CorporatePhone: "Celular Coorporativo",
	Email:          "Correo",
	Company:        "Empresa",
	Manager:        "jefe_directo",
	Stage:          "Etapa",
	Sex:            "Sexo ",
	NationalID:     "Cédula / Pasaporte",
	Brand:          "Marca",
	Area:           "Área",
	WorkerType:     "Tipo de trabajador",
	Address:        "Dirección Domicilio",
	Sector:         "Sector de domicilio ",
	TenureDays:     "Permanencia en Días",
	TenureMonths:   "Permanencia en Meses",
	HireDate:       "Fecha Ingreso",
	Status:         "Estado ",
}

// MappingByName returns a known mapping; "" selects "airtable".
func MappingByName(name string) (FieldMapping, error) {
	switch name {
	case "", "airtable":
		return AirtableMapping, nil
	case "legacy":
		return LegacyMapping, nil
	default:
		return FieldMapping{}, fmt.Errorf("unknown field mapping %q", name)
	}
}

// Decode maps one remote record onto an Employee. id overrides the ID field
// when non-empty (Airtable carries the id outside the fields). A missing or
// non-string id or name is reported as common.ErrDataShape; the other fields
// are rendered leniently.
func (m FieldMapping) Decode(id string, fields map[string]any) (models.Employee, error) {
	if id == "" {
		v, ok := identifier(fields[m.ID])
		if !ok {
			return models.Employee{}, fmt.Errorf("%w: id field %q has type %T", common.ErrDataShape, m.ID, fields[m.ID])
		}
		id = v
	}
	if id == "" {
		return models.Employee{}, fmt.Errorf("%w: missing id", common.ErrDataShape)
	}

	name, ok := identifier(fields[m.Name])
	if !ok {
		return models.Employee{}, fmt.Errorf("%w: record %s: name field %q has type %T", common.ErrDataShape, id, m.Name, fields[m.Name])
	}
	if name == "" {
		return models.Employee{}, fmt.Errorf("%w: record %s: missing name", common.ErrDataShape, id)
	}

	str := func(field string) string {
		if field == "" {
			return ""
		}
		v, _ := text(fields[field])
		return v
	}

	return models.Employee{
		ID:             id,
		Name:           name,
		Code:           str(m.Code),
		Title:          str(m.Title),
		Location:       str(m.Location),
		Phone:          str(m.Phone),
		CorporatePhone: str(m.CorporatePhone),
		Email:          str(m.Email),
		Company:        str(m.Company),
		Manager:        str(m.Manager),
		Stage:          str(m.Stage),
		Sex:            str(m.Sex),
		NationalID:     str(m.NationalID),
		Brand:          str(m.Brand),
		Area:           str(m.Area),
		WorkerType:     str(m.WorkerType),
		Address:        str(m.Address),
		Sector:         str(m.Sector),
		TenureDays:     integer(fields[m.TenureDays]),
		TenureMonths:   integer(fields[m.TenureMonths]),
		HireDate:       str(m.HireDate),
	}, nil
}

// columns lists the distinct mapped field names, ID first.
func (m FieldMapping) columns() []string {
	all := []string{
		m.ID, m.Name, m.Code, m.Title, m.Location, m.Phone, m.CorporatePhone, m.Email,
		m.Company, m.Manager, m.Stage, m.Sex, m.NationalID, m.Brand, m.Area, m.WorkerType,
		m.Address, m.Sector, m.TenureDays, m.TenureMonths, m.HireDate,
	}

	seen := make(map[string]struct{}, len(all))
	cols := make([]string, 0, len(all))
	for _, c := range all {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
	}
	return cols
}

// filterFields pairs each set filter with the remote field it constrains.
func (m FieldMapping) filterFields(f models.Filters) [][2]string {
	var out [][2]string
	for _, p := range [][2]string{
		{m.Location, f.Location},
		{m.Brand, f.Brand},
		{m.Area, f.Area},
		{m.Title, f.Title},
	} {
		if p[0] != "" && p[1] != "" {
			out = append(out, p)
		}
	}
	return out
}

// identifier accepts only textual values. A missing value is "" and ok.
func identifier(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(x), true
	case []byte:
		return strings.TrimSpace(string(x)), true
	default:
		return "", false
	}
}

// text renders a scalar remote value as a trimmed string. Lookup fields
// arrive as arrays and are joined. ok is false for unsupported types.
func text(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(x), true
	case []byte:
		return strings.TrimSpace(string(x)), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int:
		return strconv.Itoa(x), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		return x.Format(time.DateOnly), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := text(item); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), true
	default:
		return "", false
	}
}

func integer(v any) *int {
	var n int
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		n = int(x)
	case int64:
		n = int(x)
	case int32:
		n = int(x)
	case int:
		n = x
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		n = parsed
	case []byte:
		parsed, err := strconv.Atoi(strings.TrimSpace(string(x)))
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}
