package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	referencePrefix = "CP-"
	referenceLength = 6

	DefaultSiteName        = "ComparaParqueaderos.com"
	DefaultWhatsappBaseURL = "https://wa.me"
)

const messageTemplate = `Hola

Quiero reservar un parqueadero en *%s*,
con los siguientes datos:

• *Tipo de parqueadero:* %s
• *Entrada:* %s - %s
• *Salida:* %s - %s
• *Precio por día:* $%s
• *Total:* $%s

• *Nombre:* %s %s
• *Vehículo:* %s
• *Placa:* %s
• *Referencia:* %s

Enviado desde *%s*`

// HandoffMessage holds the values interpolated into the WhatsApp message.
type HandoffMessage struct {
	OfferName       string
	CoverageLabel   string
	Entry           CivilDateTime
	EntryTime       string
	Exit            CivilDateTime
	ExitTime        string
	PricePerDay     int64
	TotalPrice      int64
	CustomerName    string
	CustomerSurname string
	VehicleLabel    string
	VehiclePlate    string
	Reference       string
	SiteName        string
}

// ShortReference derives the visitor-facing reference from a booking id.
func ShortReference(bookingID string) string {
	tail := bookingID
	if len(tail) > referenceLength {
		tail = tail[len(tail)-referenceLength:]
	}
	return referencePrefix + strings.ToUpper(tail)
}

// FormatCOP groups whole pesos with "." every three digits: 1250000 -> 1.250.000.
func FormatCOP(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// FormatDateFriendly renders DD-Mmm-YYYY with English month abbreviations,
// the form operators already receive: 15-Aug-2025.
func FormatDateFriendly(c CivilDateTime) string {
	return c.instant().Format("02-Jan-2006")
}

// ComposeMessage fills the handoff template. The result is trimmed.
func ComposeMessage(m HandoffMessage) string {
	siteName := m.SiteName
	if siteName == "" {
		siteName = DefaultSiteName
	}
	msg := fmt.Sprintf(messageTemplate,
		m.OfferName,
		m.CoverageLabel,
		FormatDateFriendly(m.Entry), m.EntryTime,
		FormatDateFriendly(m.Exit), m.ExitTime,
		FormatCOP(m.PricePerDay),
		FormatCOP(m.TotalPrice),
		m.CustomerName, m.CustomerSurname,
		m.VehicleLabel,
		m.VehiclePlate,
		m.Reference,
		siteName,
	)
	return strings.TrimSpace(msg)
}

// DigitsOnly strips everything but 0-9 from a phone number.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildDeepLink returns {base}/{digits}?text={message}. Spaces are encoded
// as %20 so the link decodes the same way in every WhatsApp client.
func BuildDeepLink(baseURL, phone, message string) string {
	if baseURL == "" {
		baseURL = DefaultWhatsappBaseURL
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("%s/%s?text=%s", strings.TrimRight(baseURL, "/"), DigitsOnly(phone), text)
}
