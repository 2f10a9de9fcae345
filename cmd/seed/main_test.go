package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionCatalog(t *testing.T) {
	catalog := permissionCatalog()
	assert.Len(t, catalog, 24)
	assert.Equal(t, permissionSeed{Code: "emergencias:crear", Name: "Crear emergencias", Module: "emergencias", Action: "crear"}, catalog[0])

	codes := make(map[string]bool)
	for _, p := range catalog {
		codes[p.Code] = true
	}
	assert.Len(t, codes, 24, "códigos únicos")
	assert.True(t, codes["seguridad:eliminar"])
}

func TestRoleSeeds(t *testing.T) {
	granted := func(code string) []string {
		var out []string
		for _, r := range roleSeeds {
			if r.Code != code {
				continue
			}
			for _, p := range permissionCatalog() {
				if r.Grants(p.Module, p.Action) {
					out = append(out, p.Code)
				}
			}
		}
		return out
	}

	assert.Len(t, granted("ADMIN"), 24)
	assert.Len(t, granted("COORDINADOR"), 16)
	assert.Len(t, granted("BODEGUERO"), 8)
	assert.Contains(t, granted("BODEGUERO"), "inventario:eliminar")
	assert.NotContains(t, granted("BODEGUERO"), "seguridad:leer")
	assert.Len(t, granted("DIGITADOR"), 9)
	assert.Contains(t, granted("DIGITADOR"), "emergencias:leer")
	assert.Len(t, granted("CONSULTA"), 6)
	for _, code := range granted("CONSULTA") {
		assert.Contains(t, code, ":leer")
	}
}

func TestCatalogSeedsUniqueCodes(t *testing.T) {
	for name, seeds := range map[string][][3]string{
		"tipos de desastre": disasterTypeSeeds,
		"categorías":        categorySeeds,
		"unidades":          unitSeeds,
	} {
		codes := make(map[string]bool)
		for _, s := range seeds {
			assert.False(t, codes[s[0]], "%s: código repetido %s", name, s[0])
			assert.NotEmpty(t, s[1], "%s: %s sin nombre", name, s[0])
			codes[s[0]] = true
		}
	}
	assert.Len(t, disasterTypeSeeds, 6)
	assert.Equal(t, "Sequía", disasterTypeSeeds[4][1])
}
