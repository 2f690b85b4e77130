// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toikana/marketplace/pkg/slug"
)

/*
TestFrom covers Latin, Kyrgyz and Russian input.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hall Photo", "hall-photo"},
		{"Ала-Тоо зал", "ala-too-zal"},
		{"Көл жээгиндеги үй", "kol-zheegindegi-uy"},
		{"Жаңы Ордо", "zhangy-ordo"},
		{"Café  Déjà-vu!", "cafe-deja-vu"},
		{"  --IMG_0042--  ", "img-0042"},
		{"Щёлковский", "shchyolkovskiy"},
		{"🎉🎉", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
