package entities

type DigestLine struct {
	OperatorName   string
	Bookings       int
	TotalFormatted string
}

type DigestEmailData struct {
	SiteName      string
	FromFormatted string
	ToFormatted   string
	Lines         []DigestLine
	TotalBookings int
}
