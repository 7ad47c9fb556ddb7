// Package chat answers questions posted in the observer room with weather,
// time and city information.
package chat

import "strings"

// Category is the kind of question a message asks.
type Category int

// Categories in matching priority order.
const (
	CategoryWeather Category = iota
	CategoryTime
	CategoryDate
	CategoryHumidity
	CategoryComparison
	CategoryGreeting
	CategoryHelp
	CategoryLocation
	CategoryClothing
	CategorySystem
	CategoryActivities
	CategoryForecast
	CategoryCalculations
	CategoryExtremes
	CategoryUnknown
)

var categoryNames = [...]string{
	"weather", "time", "date", "humidity", "comparison", "greeting", "help",
	"location", "clothing", "system", "activities", "forecast", "calculations",
	"extremes", "unknown",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// keywords are matched as substrings of the lowercased message; the first
// category with a hit wins.
var keywords = []struct {
	category Category
	words    []string
}{
	{CategoryWeather, []string{"temperatura", "temperature", "clima", "weather", "calor", "frio", "frío", "grados"}},
	{CategoryTime, []string{"hora", "time", "horario"}},
	{CategoryDate, []string{"fecha", "date", "día", "dia", "hoy", "calendario"}},
	{CategoryHumidity, []string{"humedad", "humidity", "húmedo", "humedo", "vapor"}},
	{CategoryComparison, []string{"comparar", "compare", "diferencia", "versus", "vs", "entre"}},
	{CategoryGreeting, []string{"hola", "hello", "hi", "hey", "buenos días", "buenas tardes", "buenas noches", "saludos"}},
	{CategoryHelp, []string{"ayuda", "help", "que puedes hacer", "qué puedes hacer", "comandos", "opciones", "menu", "menú"}},
	{CategoryLocation, []string{"donde", "dónde", "ubicación", "location", "lugar", "ciudad", "coordenadas"}},
	{CategoryClothing, []string{"consejo", "recomendación", "que llevar", "qué llevar", "vestir", "ropa", "outfit"}},
	{CategorySystem, []string{"robot", "sistema", "como funciona", "cómo funciona", "tecnología", "api"}},
	{CategoryActivities, []string{"ejercicio", "deporte", "correr", "caminar", "salir", "actividad"}},
	{CategoryForecast, []string{"pronóstico", "pronostico", "mañana", "después", "luego", "futuro"}},
	{CategoryCalculations, []string{"suma", "resta", "cuanto es", "cuánto es", "calcular"}},
	{CategoryExtremes, []string{"máximo", "maximo", "mínimo", "minimo", "record", "récord", "extremo"}},
}

// Classify returns the category of a message.
func Classify(content string) Category {
	lower := strings.ToLower(strings.TrimSpace(content))
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.category
			}
		}
	}
	return CategoryUnknown
}

// cityIn returns the city key a message mentions, or "" for none.
func cityIn(lower string) string {
	switch {
	case strings.Contains(lower, "bogota"), strings.Contains(lower, "bogotá"):
		return "bogota"
	case strings.Contains(lower, "medellin"), strings.Contains(lower, "medellín"):
		return "medellin"
	}
	return ""
}
