package library

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/geo"
)

var saoJose = geo.Point{Lat: -25.5315, Lon: -49.2036}

func ptr(f float64) *float64 { return &f }

func lib(name string, lat, lon *float64) Library {
	return Library{ID: name, Name: name, Latitude: lat, Longitude: lon}
}

func fixtures() []Library {
	return []Library{
		lib("Curitiba Pública", ptr(-25.4284), ptr(-49.2733)),
		lib("São José Municipal", ptr(-25.5350), ptr(-49.2060)),
		lib("Sem coordenadas", nil, nil),
		lib("Só latitude", ptr(-25.5), nil),
		lib("Quebrada", ptr(math.NaN()), ptr(-49.2)),
		lib("Fora do mapa", ptr(123), ptr(-49.2)),
	}
}

func TestLibrary_Location(t *testing.T) {
	_, ok := lib("x", nil, ptr(1)).Location()
	assert.False(t, ok)

	p, ok := lib("x", ptr(1), ptr(2)).Location()
	assert.True(t, ok)
	assert.Equal(t, geo.Point{Lat: 1, Lon: 2}, p)
}

func TestService_Nearby(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	t.Run("sorted and filtered", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any()).Return(fixtures(), nil)

		out, err := svc.Nearby(context.Background(), saoJose, 0)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "São José Municipal", out[0].Item.Name)
		assert.Equal(t, "Curitiba Pública", out[1].Item.Name)
		assert.Less(t, out[0].DistanceMeters, out[1].DistanceMeters)
	})

	t.Run("limit", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any()).Return(fixtures(), nil)

		out, err := svc.Nearby(context.Background(), saoJose, 1)
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("repository error", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

		_, err := svc.Nearby(context.Background(), saoJose, 5)
		assert.Error(t, err)
	})

	t.Run("invalid reference", func(t *testing.T) {
		_, err := svc.Nearby(context.Background(), geo.Point{Lat: 200}, 5)
		assert.Error(t, err)
	})
}

func TestHTTPHandler_Nearby(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo), saoJose)

	t.Run("default reference", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any()).Return(fixtures(), nil)

		w := httptest.NewRecorder()
		handler.Nearby(w, httptest.NewRequest(http.MethodGet, "/v1/libraries/nearby", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []struct {
				Item           Library `json:"item"`
				DistanceMeters int     `json:"distance_meters"`
			} `json:"data"`
			Meta struct {
				Reference geo.Point `json:"reference"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, saoJose, resp.Meta.Reference)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "São José Municipal", resp.Data[0].Item.Name)
	})

	t.Run("explicit reference", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any()).Return(fixtures(), nil)

		w := httptest.NewRecorder()
		handler.Nearby(w, httptest.NewRequest(http.MethodGet, "/v1/libraries/nearby?lat=-25.4284&lon=-49.2733&limit=1", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Curitiba Pública")
		assert.Contains(t, w.Body.String(), `"distance_meters":0`)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, q := range []string{"?lat=abc&lon=1", "?lat=1", "?lat=95&lon=0", "?limit=0"} {
			w := httptest.NewRecorder()
			handler.Nearby(w, httptest.NewRequest(http.MethodGet, "/v1/libraries/nearby"+q, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})
}
