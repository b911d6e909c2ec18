package rest

import (
	"encoding/json"
	"listing-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNeighborhoodInput(t *testing.T) {
	cases := []struct {
		name string
		json string
		want domain.Neighborhood
	}{
		{"plain string", `"  Jardim   dos Estados "`, domain.Neighborhood{Name: "Jardim dos Estados"}},
		{"structured", `{"region":"Centro","neighborhood":"Vila Planalto"}`, domain.Neighborhood{Region: "Centro", Name: "Vila Planalto"}},
		{"legacy keys", `{"regiao":"Sul","bairro":"Pioneiros"}`, domain.Neighborhood{Region: "Sul", Name: "Pioneiros"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var in NeighborhoodInput
			require.NoError(t, json.Unmarshal([]byte(tc.json), &in))
			require.Equal(t, tc.want, in.Value)
		})
	}

	t.Run("number is rejected", func(t *testing.T) {
		var in NeighborhoodInput
		require.Error(t, json.Unmarshal([]byte(`12`), &in))
	})

	t.Run("null leaves the field unset", func(t *testing.T) {
		var f PropertyFields
		require.NoError(t, json.Unmarshal([]byte(`{"neighborhood":null}`), &f))
		payload, err := f.toPayload()
		require.NoError(t, err)
		require.Nil(t, payload.Neighborhood)
	})
}

func TestToPayloadOwner(t *testing.T) {
	for raw, want := range map[string]string{
		`{"owner_id":"abc"}`: "abc",
		`{"owner_id":15}`:    "15",
	} {
		var f PropertyFields
		require.NoError(t, json.Unmarshal([]byte(raw), &f))
		payload, err := f.toPayload()
		require.NoError(t, err)
		require.Equal(t, want, *payload.OwnerID)
	}

	var f PropertyFields
	require.NoError(t, json.Unmarshal([]byte(`{"owner_id":null}`), &f))
	payload, err := f.toPayload()
	require.NoError(t, err)
	require.Nil(t, payload.OwnerID)
}

func TestToPropertyResponseDropsHalfCoordinates(t *testing.T) {
	lat := -20.46
	p := &domain.Property{DocumentID: "d", Latitude: &lat, Geohash: "x"}
	resp := toPropertyResponse(p, nil)
	require.Nil(t, resp.Latitude)
	require.Nil(t, resp.Longitude)
	require.Empty(t, resp.Geohash)
	require.Nil(t, resp.Neighborhood)
}
