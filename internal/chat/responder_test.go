package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/roomcast/internal/weather"
)

type fixedSource map[string]weather.Reading

func (f fixedSource) GetCurrentReading(_ context.Context, city string) (weather.Reading, error) {
	rd, ok := f[city]
	if !ok {
		return weather.Reading{}, weather.ErrUnknownCity
	}
	return rd, nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 0, weather.Colombia)

func newTestResponder(src weather.Source) *Responder {
	return NewResponder(src, WithClock(func() time.Time { return fixedNow }))
}

func readings() fixedSource {
	return fixedSource{
		"bogota": {
			City: "bogota", Name: "Bogotá", Emoji: "🏔️", Temperature: 16, Humidity: 72,
			Description: "Parcialmente nublado", Source: "Datos simulados", Altitude: 2640, Timestamp: fixedNow,
		},
		"medellin": {
			City: "medellin", Name: "Medellín", Emoji: "🌺", Temperature: 24, Humidity: 65,
			Description: "Cielo despejado", Source: "Datos simulados", Altitude: 1495, Timestamp: fixedNow,
		},
	}
}

func TestResponder_Categories(t *testing.T) {
	r := newTestResponder(readings())

	tests := []struct {
		in       string
		category Category
		want     string
	}{
		{"¿Qué temperatura hace en Bogotá?", CategoryWeather, "**Clima en Bogotá:**"},
		{"clima", CategoryWeather, "Reporte climático completo"},
		{"qué hora es", CategoryTime, "12:30:00"},
		{"¿Qué fecha es?", CategoryDate, "miércoles, 1 de mayo de 2024"},
		{"humedad en medellín", CategoryHumidity, "**Humedad en Medellín:** 65%"},
		{"comparar ciudades", CategoryComparison, "Medellín 🌺 está 8°C más caliente"},
		{"hola", CategoryGreeting, "¡Buenas tardes!"},
		{"ayuda", CategoryHelp, "MENÚ DE COMANDOS"},
		{"ubicación", CategoryLocation, "UBICACIONES MONITOREADAS"},
		{"ropa", CategoryClothing, "RECOMENDACIONES DE VESTIMENTA"},
		{"robot", CategorySystem, "15s (Bogotá) y 20s (Medellín)"},
		{"correr en medellín", CategoryActivities, "☀️ **Día despejado:**"},
		{"pronóstico", CategoryForecast, "IDEAM"},
		{"calcular", CategoryCalculations, "Promedio: 20.0°C"},
		{"récord", CategoryExtremes, "Promedio 14-20°C"},
		{"xyz", CategoryUnknown, `No reconocí tu pregunta: "xyz"`},
		{`{"content": "qué hora es"}`, CategoryUnknown, "Hora actual en Colombia"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			req := require.New(t)
			if tt.in[0] != '{' {
				req.Equal(tt.category, Classify(tt.in), "category %s", Classify(tt.in))
			}
			got, err := r.Reply(context.Background(), tt.in)
			req.NoError(err)
			req.Contains(got, tt.want)
		})
	}
}

func TestResponder_CalculationsAndClothing(t *testing.T) {
	req := require.New(t)
	r := newTestResponder(readings())

	got, err := r.Reply(context.Background(), "calcular")
	req.NoError(err)
	req.Contains(got, "Bogotá en Fahrenheit: 60.8°F")
	req.Contains(got, "Diferencia: 7%")

	got, err = r.Reply(context.Background(), "qué ropa para bogotá")
	req.NoError(err)
	req.Contains(got, "RECOMENDACIÓN PARA BOGOTÁ")
	req.Contains(got, "Ropa intermedia")
	req.Contains(got, "Alta humedad")
	req.Contains(got, "Tip para Bogotá")
}

func TestResponder_GreetingFollowsColombianClock(t *testing.T) {
	cases := map[int]string{7: "¡Buenos días!", 15: "¡Buenas tardes!", 22: "¡Buenas noches!", 3: "¡Buenas noches!"}
	for hour, want := range cases {
		now := time.Date(2024, 5, 1, hour, 0, 0, 0, weather.Colombia)
		r := NewResponder(readings(), WithClock(func() time.Time { return now.UTC() }))
		got, err := r.Reply(context.Background(), "hola")
		require.NoError(t, err)
		require.Contains(t, got, want, "hour %d", hour)
	}
}

func TestResponder_SourceErrorPropagates(t *testing.T) {
	r := newTestResponder(fixedSource{})
	_, err := r.Reply(context.Background(), "temperatura en medellín")
	require.True(t, errors.Is(err, weather.ErrUnknownCity))
}

func TestHumidityLevel(t *testing.T) {
	require.Equal(t, "Muy seco", humidityLevel(10))
	require.Equal(t, "Seco", humidityLevel(30))
	require.Equal(t, "Cómodo", humidityLevel(50))
	require.Equal(t, "Húmedo", humidityLevel(84))
	require.Equal(t, "Muy húmedo", humidityLevel(85))
}
