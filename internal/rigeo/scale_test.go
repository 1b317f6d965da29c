// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rigeo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

func TestDetectScale(t *testing.T) {
	tests := []struct {
		text string
		want types.Scale
	}{
		{"Escala 1:100.000", types.Scale100k},
		{"1/50000", types.Scale50k},
		{"mapa geral", types.ScaleOther},
		{"Carta geológica 1 : 250 000", types.Scale250k},
		{"Folha 1:250000 - 2010", types.Scale250k},
		{"Mapa 100k", types.Scale100k},
		{"escala 50 mil", types.Scale50k},
		{"Integração 1:25.000 e 1:50.000", types.Scale50k},
		{"1:1.000.000", types.ScaleOther},
		{"1:100.000 sobre base 1:250.000", types.Scale100k},
		{"", types.ScaleOther},
		{"Escala 1:50.000 200 exemplares", types.Scale50k},
		{"Folha 1 : 250 000 2015", types.Scale250k},
		{"1:100.000 250", types.Scale100k},
		{"1:25.000 100", types.ScaleOther},
		{"Municipio com 100 mil habitantes", types.ScaleOther},
		{"Escala de 250 mil", types.Scale250k},
		{"trecho de 100 km", types.ScaleOther},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectScale(tt.text))
		})
	}
}
