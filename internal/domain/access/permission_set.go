package access

import (
	"sort"
	"strings"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// Módulos y acciones del catálogo de permisos.
var (
	Modules = []string{"emergencias", "inventario", "beneficiarios", "entregas", "configuracion", "seguridad"}
	Actions = []string{"crear", "leer", "actualizar", "eliminar"}
)

// Code arma el código "modulo:accion".
func Code(module, action string) string {
	return module + ":" + action
}

// ParseCode separa un código "modulo:accion". ok es false si el formato no es válido.
func ParseCode(code string) (module, action string, ok bool) {
	module, action, ok = strings.Cut(code, ":")
	if !ok || module == "" || action == "" || strings.Contains(action, ":") {
		return "", "", false
	}
	return module, action, true
}

// IsAdmin indica si la lista de roles contiene ADMIN.
func IsAdmin(roleCodes []string) bool {
	for _, r := range roleCodes {
		if r == entity.RoleAdmin {
			return true
		}
	}
	return false
}

// PermissionSet conjunto deduplicado de códigos de permiso.
type PermissionSet map[string]struct{}

// NewPermissionSet construye el conjunto a partir de códigos (se deduplican).
func NewPermissionSet(codes ...string) PermissionSet {
	s := make(PermissionSet, len(codes))
	s.Add(codes...)
	return s
}

// Add agrega códigos al conjunto.
func (s PermissionSet) Add(codes ...string) {
	for _, c := range codes {
		s[c] = struct{}{}
	}
}

// Has exige el par exacto (module, action).
func (s PermissionSet) Has(module, action string) bool {
	_, ok := s[Code(module, action)]
	return ok
}

// HasAny es un OR lógico: basta con uno de los códigos requeridos.
func (s PermissionSet) HasAny(required ...string) bool {
	for _, r := range required {
		if _, ok := s[r]; ok {
			return true
		}
	}
	return false
}

// Codes devuelve los códigos ordenados.
func (s PermissionSet) Codes() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
