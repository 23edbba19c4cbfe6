package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
	"comparaparqueaderos/internal/repository"
)

const digestWindow = 24 * time.Hour

//go:embed templates/digest_email.html
var digestEmailHTML string

var digestTemplate = template.Must(template.New("digest").Parse(digestEmailHTML))

type JobService struct {
	repo     repository.JobRepository
	mailer   Mailer
	to       string
	siteName string
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewJobService(repo repository.JobRepository, mailer Mailer, to, siteName string, loc *time.Location, logger *slog.Logger) *JobService {
	if siteName == "" {
		siteName = DefaultSiteName
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{repo: repo, mailer: mailer, to: to, siteName: siteName, loc: loc, now: time.Now, logger: logger}
}

// SendDailyDigest e-mails the per-operator count of bookings initiated in
// the last 24 hours. Nothing is sent for an empty window.
func (s *JobService) SendDailyDigest(ctx context.Context) error {
	to := s.now()
	from := to.Add(-digestWindow)

	data, err := s.BuildDigest(ctx, from, to)
	if err != nil {
		return err
	}
	if data.TotalBookings == 0 {
		s.logger.Info("digest: no bookings in window", "from", from, "to", to)
		return nil
	}

	var html bytes.Buffer
	if err := digestTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("digest: render html: %w", err)
	}

	subject := fmt.Sprintf("%s: %d solicitudes de reserva (%s)", s.siteName, data.TotalBookings, data.ToFormatted)
	if err := s.mailer.Send(ctx, s.to, s.siteName, subject, digestPlainText(data), html.String()); err != nil {
		return fmt.Errorf("digest: send: %w", err)
	}
	s.logger.Info("digest: sent", "to", s.to, "bookings", data.TotalBookings, "operators", len(data.Lines))
	return nil
}

func (s *JobService) BuildDigest(ctx context.Context, from, to time.Time) (entities.DigestEmailData, error) {
	counts, err := s.repo.CountBookingsByOperator(ctx, from, to, []string{db.BookingStatusInitiated})
	if err != nil {
		return entities.DigestEmailData{}, fmt.Errorf("digest: load counts: %w", err)
	}

	data := entities.DigestEmailData{
		SiteName:      s.siteName,
		FromFormatted: from.In(s.loc).Format("02/01/2006 15:04"),
		ToFormatted:   to.In(s.loc).Format("02/01/2006 15:04"),
	}
	for _, c := range counts {
		data.Lines = append(data.Lines, entities.DigestLine{
			OperatorName:   c.OperatorName,
			Bookings:       c.Bookings,
			TotalFormatted: FormatCOP(c.TotalPrice),
		})
		data.TotalBookings += c.Bookings
	}
	return data, nil
}

func digestPlainText(data entities.DigestEmailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: solicitudes de reserva del %s al %s\n\n", data.SiteName, data.FromFormatted, data.ToFormatted)
	for _, l := range data.Lines {
		fmt.Fprintf(&b, "%s: %d (total $%s)\n", l.OperatorName, l.Bookings, l.TotalFormatted)
	}
	fmt.Fprintf(&b, "\nTotal: %d\n", data.TotalBookings)
	return b.String()
}
