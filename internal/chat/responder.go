package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Tyrowin/roomcast/internal/weather"
)

// Responder builds replies to observer room questions.
type Responder struct {
	source    weather.Source
	now       func() time.Time
	intervals map[string]time.Duration
}

// Option configures a Responder.
type Option func(*Responder)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

// WithRobotIntervals sets the robot periods quoted by the system answer.
func WithRobotIntervals(bogota, medellin time.Duration) Option {
	return func(r *Responder) {
		r.intervals = map[string]time.Duration{"bogota": bogota, "medellin": medellin}
	}
}

// NewResponder creates a Responder reading weather from source.
func NewResponder(source weather.Source, opts ...Option) *Responder {
	r := &Responder{
		source:    source,
		now:       time.Now,
		intervals: map[string]time.Duration{"bogota": 15 * time.Second, "medellin": 20 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reply answers text. A JSON object with a "content" field is unwrapped
// first; anything else is taken as the question itself.
func (r *Responder) Reply(ctx context.Context, text string) (string, error) {
	content := unwrap(text)
	lower := strings.ToLower(strings.TrimSpace(content))
	now := r.now().In(weather.Colombia)

	switch Classify(content) {
	case CategoryWeather:
		return r.weather(ctx, lower)
	case CategoryTime:
		return fmt.Sprintf("🕐 **Hora actual en Colombia:** %s\n📍 Zona horaria: UTC-5 (Bogotá/Medellín)", now.Format(time.TimeOnly)), nil
	case CategoryDate:
		return fmt.Sprintf("📅 **Fecha actual:** %s\n🇨🇴 Colombia (UTC-5)", spanishDate(now)), nil
	case CategoryHumidity:
		return r.humidity(ctx, lower)
	case CategoryComparison:
		return r.comparison(ctx)
	case CategoryGreeting:
		return greeting(now), nil
	case CategoryHelp:
		return helpText, nil
	case CategoryLocation:
		return locationText(), nil
	case CategoryClothing:
		return r.clothing(ctx, lower)
	case CategorySystem:
		return r.systemText(), nil
	case CategoryActivities:
		return r.activities(ctx, lower)
	case CategoryForecast:
		return forecastText, nil
	case CategoryCalculations:
		return r.calculations(ctx)
	case CategoryExtremes:
		return extremesText(), nil
	default:
		return fmt.Sprintf("🤖 No reconocí tu pregunta: %q\n\n%s", content, suggestionsText), nil
	}
}

func unwrap(text string) string {
	var payload struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err == nil && payload.Content != nil {
		return *payload.Content
	}
	return text
}

func (r *Responder) read(ctx context.Context, city string) (weather.Reading, error) {
	rd, err := r.source.GetCurrentReading(ctx, city)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("reading for %s: %w", city, err)
	}
	return rd, nil
}

func (r *Responder) both(ctx context.Context) (weather.Reading, weather.Reading, error) {
	bog, err := r.read(ctx, "bogota")
	if err != nil {
		return weather.Reading{}, weather.Reading{}, err
	}
	med, err := r.read(ctx, "medellin")
	if err != nil {
		return weather.Reading{}, weather.Reading{}, err
	}
	return bog, med, nil
}

func clock(rd weather.Reading) string {
	return rd.Timestamp.In(weather.Colombia).Format(time.TimeOnly)
}

func (r *Responder) weather(ctx context.Context, lower string) (string, error) {
	if city := cityIn(lower); city != "" {
		rd, err := r.read(ctx, city)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s **Clima en %s:**\n🌡️ **Temperatura:** %d°C\n🌤️ **Condición:** %s\n💧 **Humedad:** %d%%\n🕐 **Actualizado:** %s\n📡 **Fuente:** %s\n📏 **Altitud:** %d metros sobre el nivel del mar",
			rd.Emoji, rd.Name, rd.Temperature, rd.Description, rd.Humidity, clock(rd), rd.Source, rd.Altitude), nil
	}
	bog, med, err := r.both(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🌤️ **Reporte climático completo:**\n\n🏔️ **BOGOTÁ:**\n   🌡️ %d°C - %s\n   💧 Humedad: %d%%\n\n🌺 **MEDELLÍN:**\n   🌡️ %d°C - %s\n   💧 Humedad: %d%%\n\n🕐 **Actualizado:** %s (Colombia)",
		bog.Temperature, bog.Description, bog.Humidity, med.Temperature, med.Description, med.Humidity, clock(bog)), nil
}

func (r *Responder) humidity(ctx context.Context, lower string) (string, error) {
	if city := cityIn(lower); city != "" {
		rd, err := r.read(ctx, city)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("💧 **Humedad en %s:** %d%%\n📊 **Nivel:** %s\n🌡️ **Temperatura:** %d°C",
			rd.Name, rd.Humidity, humidityLevel(rd.Humidity), rd.Temperature), nil
	}
	bog, med, err := r.both(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("💧 **Comparación de humedad:**\n🏔️ **Bogotá:** %d%% - %s\n🌺 **Medellín:** %d%% - %s",
		bog.Humidity, humidityLevel(bog.Humidity), med.Humidity, humidityLevel(med.Humidity)), nil
}

func (r *Responder) comparison(ctx context.Context) (string, error) {
	bog, med, err := r.both(ctx)
	if err != nil {
		return "", err
	}
	warmer, humid := "Bogotá 🏔️", "Bogotá 🏔️"
	if med.Temperature > bog.Temperature {
		warmer = "Medellín 🌺"
	}
	if med.Humidity > bog.Humidity {
		humid = "Medellín 🌺"
	}
	return fmt.Sprintf("📊 **Comparación climática detallada:**\n\n🌡️ **Temperatura:**\n   • %s está %d°C más caliente\n   • Bogotá: %d°C | Medellín: %d°C\n\n💧 **Humedad:**\n   • %s es %d%% más húmeda\n   • Bogotá: %d%% | Medellín: %d%%\n\n🏔️ **Diferencia de altitud:** %d metros\n🕐 **Actualizado:** %s",
		warmer, absInt(bog.Temperature-med.Temperature), bog.Temperature, med.Temperature,
		humid, absInt(bog.Humidity-med.Humidity), bog.Humidity, med.Humidity,
		absInt(bog.Altitude-med.Altitude), clock(bog)), nil
}

func (r *Responder) clothing(ctx context.Context, lower string) (string, error) {
	if city := cityIn(lower); city != "" {
		rd, err := r.read(ctx, city)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("👕 **RECOMENDACIÓN PARA %s**\n🌡️ **Temperatura:** %d°C\n💧 **Humedad:** %d%%\n\n%s",
			strings.ToUpper(rd.Name), rd.Temperature, rd.Humidity, clothingAdvice(rd.Temperature, rd.Humidity, city)), nil
	}
	bog, med, err := r.both(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("👕 **RECOMENDACIONES DE VESTIMENTA**\n\n🏔️ **BOGOTÁ (%d°C):**\n%s\n\n🌺 **MEDELLÍN (%d°C):**\n%s",
		bog.Temperature, clothingAdvice(bog.Temperature, bog.Humidity, "bogota"),
		med.Temperature, clothingAdvice(med.Temperature, med.Humidity, "medellin")), nil
}

func (r *Responder) activities(ctx context.Context, lower string) (string, error) {
	if city := cityIn(lower); city != "" {
		rd, err := r.read(ctx, city)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🏃 **ACTIVIDADES RECOMENDADAS PARA %s**\n🌡️ **Condiciones:** %d°C, %s\n\n%s",
			strings.ToUpper(rd.Name), rd.Temperature, rd.Description, activitySuggestions(rd.Temperature, rd.Humidity, rd.Description)), nil
	}
	bog, med, err := r.both(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🏃 **ACTIVIDADES RECOMENDADAS**\n\n🏔️ **BOGOTÁ (%d°C):**\n%s\n\n🌺 **MEDELLÍN (%d°C):**\n%s",
		bog.Temperature, activitySuggestions(bog.Temperature, bog.Humidity, bog.Description),
		med.Temperature, activitySuggestions(med.Temperature, med.Humidity, med.Description)), nil
}

func (r *Responder) calculations(ctx context.Context) (string, error) {
	bog, med, err := r.both(ctx)
	if err != nil {
		return "", err
	}
	avg := func(a, b int) float64 { return math.Round(float64(a+b)/2*10) / 10 }
	fahrenheit := func(c int) float64 { return math.Round((float64(c)*9/5+32)*10) / 10 }
	return fmt.Sprintf("🧮 **CÁLCULOS CLIMÁTICOS**\n\n🌡️ **Temperaturas:**\n• Diferencia: %d°C\n• Promedio: %.1f°C\n• Bogotá: %d°C | Medellín: %d°C\n\n💧 **Humedad:**\n• Diferencia: %d%%\n• Promedio: %.1f%%\n• Bogotá: %d%% | Medellín: %d%%\n\n📊 **Conversiones útiles:**\n• Bogotá en Fahrenheit: %.1f°F\n• Medellín en Fahrenheit: %.1f°F",
		absInt(bog.Temperature-med.Temperature), avg(bog.Temperature, med.Temperature), bog.Temperature, med.Temperature,
		absInt(bog.Humidity-med.Humidity), avg(bog.Humidity, med.Humidity), bog.Humidity, med.Humidity,
		fahrenheit(bog.Temperature), fahrenheit(med.Temperature)), nil
}

func (r *Responder) systemText() string {
	return fmt.Sprintf("🤖 **INFORMACIÓN DEL SISTEMA**\n\n⚡ **Tecnología:**\n• Backend: Go + gin + WebSockets (gorilla)\n• API Externa: OpenWeatherMap\n• Comunicación: WebSocket en tiempo real por salas\n\n🔄 **Funcionamiento:**\n• Los robots obtienen datos cada %s (Bogotá) y %s (Medellín)\n• Sistema de fallback a datos simulados\n• Zona horaria de Colombia (UTC-5)\n\n💡 **¿Tienes alguna pregunta técnica específica?**",
		r.intervals["bogota"], r.intervals["medellin"])
}

func greeting(now time.Time) string {
	var hello, note string
	switch h := now.Hour(); {
	case h >= 5 && h < 12:
		hello, note = "¡Buenos días! ☀️", "¡Perfecto para empezar el día!"
	case h >= 12 && h < 18:
		hello, note = "¡Buenas tardes! 🌤️", "¡Espero que tengas una excelente tarde!"
	default:
		hello, note = "¡Buenas noches! 🌙", "¡Que tengas una linda noche!"
	}
	return hello + " " + note + "\n\n🤖 Soy tu **Asistente Meteorológico** para Colombia.\n\n💡 **Escribe \"ayuda\" para ver todos los comandos disponibles.**"
}

var (
	weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	months   = [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

func spanishDate(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}

func locationText() string {
	bog, med := weather.Cities["bogota"], weather.Cities["medellin"]
	return fmt.Sprintf("📍 **INFORMACIÓN DE UBICACIONES MONITOREADAS**\n\n🏔️ **BOGOTÁ (Distrito Capital):**\n   • **Coordenadas:** %.4f°N, %.4f°W\n   • **Altitud:** %d metros sobre el nivel del mar\n   • **Temperatura promedio:** %s\n\n🌺 **MEDELLÍN (Antioquia):**\n   • **Coordenadas:** %.4f°N, %.4f°W\n   • **Altitud:** %d metros sobre el nivel del mar\n   • **Temperatura promedio:** %s\n\n🌍 **Ambas ciudades están en zona horaria UTC-5**",
		bog.Lat, -bog.Lon, bog.Altitude, bog.AvgTempRange,
		med.Lat, -med.Lon, med.Altitude, med.AvgTempRange)
}

func extremesText() string {
	bog, med := weather.Cities["bogota"], weather.Cities["medellin"]
	return fmt.Sprintf("🌡️ **Temperaturas históricas:**\n🏔️ **Bogotá**: Promedio %s (altitud %dm)\n🌺 **Medellín**: Promedio %s (altitud %dm)\n\n📊 Para datos históricos detallados, consulta IDEAM.",
		bog.AvgTempRange, bog.Altitude, med.AvgTempRange, med.Altitude)
}

const forecastText = "🔮 **Pronóstico:** Actualmente solo proporciono datos en tiempo real. Para pronósticos, consulta:\n• IDEAM (Colombia): www.ideam.gov.co\n• Weather.com\n• AccuWeather\n\n¿Te ayudo con el clima actual?"

const helpText = `🤖 **MENÚ DE COMANDOS DISPONIBLES**

🌡️ **CLIMA:** "¿Qué temperatura hace en Bogotá?"
💧 **HUMEDAD:** "¿Cuál es la humedad en Medellín?"
📊 **COMPARACIONES:** "Comparar ambas ciudades"
🕐 **TIEMPO:** "¿Qué hora es?" / "¿Qué fecha es hoy?"
👕 **RECOMENDACIONES:** "¿Qué ropa usar en Bogotá?"
🏃 **ACTIVIDADES:** "¿Puedo salir a correr?"
📍 **INFORMACIÓN:** "¿Dónde están ubicadas las ciudades?"`

const suggestionsText = `💡 **PERO PUEDO AYUDARTE CON:**

🌡️ **Clima actual:** "¿Qué temperatura hace?"
💧 **Humedad:** "¿Cómo está la humedad?"
📊 **Comparaciones:** "Comparar ciudades"
👕 **Vestimenta:** "¿Qué ropa llevar?"
❓ **Ayuda completa:** "ayuda"`

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
