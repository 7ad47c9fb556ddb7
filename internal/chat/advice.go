package chat

import "strings"

func humidityLevel(humidity int) string {
	switch {
	case humidity < 30:
		return "Muy seco"
	case humidity < 50:
		return "Seco"
	case humidity < 70:
		return "Cómodo"
	case humidity < 85:
		return "Húmedo"
	default:
		return "Muy húmedo"
	}
}

func clothingAdvice(temperature, humidity int, city string) string {
	var b strings.Builder
	switch {
	case temperature < 10:
		b.WriteString("🧥 **Ropa de abrigo:** Chaqueta gruesa, suéter, gorro y guantes")
	case temperature < 15:
		b.WriteString("🧥 **Ropa abrigada:** Chaqueta o suéter, puede hacer frío")
	case temperature < 20:
		b.WriteString("👕 **Ropa intermedia:** Camiseta de manga larga o suéter ligero")
	case temperature < 25:
		b.WriteString("👕 **Ropa cómoda:** Camiseta, clima ideal para cualquier ropa")
	case temperature < 30:
		b.WriteString("🩳 **Ropa ligera:** Shorts, camiseta fresca, ropa transpirable")
	default:
		b.WriteString("🏖️ **Ropa muy ligera:** Ropa mínima, busca sombra y mantente hidratado")
	}

	switch {
	case humidity > 70:
		b.WriteString("\n💧 **Alta humedad:** Usa ropa transpirable, evita telas sintéticas")
	case humidity < 30:
		b.WriteString("\n🏜️ **Baja humedad:** Usa crema hidratante, bebe mucha agua")
	}

	if city == "bogota" {
		b.WriteString("\n🏔️ **Tip para Bogotá:** El clima cambia rápido, lleva una chaqueta extra")
	} else {
		b.WriteString("\n🌺 **Tip para Medellín:** Ciudad de eterna primavera, ropa ligera pero elegante")
	}
	return b.String()
}

func activitySuggestions(temperature, humidity int, description string) string {
	var lines []string
	switch {
	case temperature >= 15 && temperature <= 25:
		lines = append(lines,
			"✅ **Perfecto para:** Correr, caminar, ciclismo",
			"🏃 **Ejercicio al aire libre:** Condiciones ideales")
	case temperature < 15:
		lines = append(lines,
			"🏠 **Mejor interior:** Gimnasio, yoga, actividades en casa",
			"🧥 **Si sales:** Abrígate bien y calienta antes")
	default:
		lines = append(lines,
			"🌅 **Ejercicio temprano:** Evita las horas de más calor",
			"💧 **Mantente hidratado:** Lleva agua extra")
	}

	switch {
	case humidity > 75:
		lines = append(lines, "💦 **Alta humedad:** Ejercicio suave, evita sobresfuerzo")
	case humidity < 40:
		lines = append(lines, "🏜️ **Baja humedad:** Bebe más agua, usa protector labial")
	}

	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "lluvia"):
		lines = append(lines, "☔ **Lluvia:** Actividades bajo techado")
	case strings.Contains(desc, "despejado"), strings.Contains(desc, "soleado"):
		lines = append(lines, "☀️ **Día despejado:** Perfecto para actividades al aire libre")
	}
	return strings.Join(lines, "\n")
}
