package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/service"
)

const usage = `uso: ligactl <comando> [opções]

comandos:
  login -email E -password P   autentica e guarda a sessão
  logout                       encerra a sessão local
  whoami                       mostra o usuário da sessão
  refresh                      recarrega os dados do usuário
  events                       lista eventos ativos
  event -id ID                 detalhes e totais de entrada de um evento
  coupons [-event ID]          lista cupons com status
  create-coupon ...            cria um cupom
  courtesies [-event ID]       lista cortesias com status
  send-courtesy ...            dispara uma cortesia
  users [-name N -email E -cpf C -limit L]
  report [-from AAAA-MM-DD -to AAAA-MM-DD -event NOME]
  version                      mostra a versão
`

var errUsage = errors.New("comando inválido")

var knownCommands = map[string]bool{
	"version": true, "login": true, "logout": true, "whoami": true, "refresh": true,
	"events": true, "event": true, "coupons": true, "create-coupon": true,
	"courtesies": true, "send-courtesy": true, "users": true, "report": true,
}

type app struct {
	session    *service.Session
	events     *service.Events
	coupons    *service.Coupons
	courtesies *service.Courtesies
	users      *service.Users
	reports    *service.Reports
	logger     *logger.Logger
	out        io.Writer
	now        func() time.Time
}

func newApp(api model.Requester, creds model.CredentialStore, logger *logger.Logger, out io.Writer) *app {
	return &app{
		session:    service.NewSession(api, creds, logger),
		events:     service.NewEvents(api, logger),
		coupons:    service.NewCoupons(api, logger),
		courtesies: service.NewCourtesies(api, logger),
		users:      service.NewUsers(api, logger),
		reports:    service.NewReports(api, logger),
		logger:     logger,
		out:        out,
		now:        time.Now,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	if !knownCommands[cmd] {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: %s", errUsage, cmd)
	}

	switch cmd {
	case "version":
		fmt.Fprintf(a.out, "Build version: %s\nBuild date: %s\nBuild commit: %s\n", buildVersion, buildDate, buildCommit)
		return nil
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.session.Logout(ctx)
	}

	state, err := a.session.Restore(ctx)
	if err != nil {
		return err
	}
	if state != model.StateAuthenticated {
		return model.ErrNotAuthenticated
	}

	switch cmd {
	case "whoami":
		u, _ := a.session.User()
		a.printUser(u)
		return nil
	case "refresh":
		u, err := a.session.Refresh(ctx)
		if err != nil {
			return err
		}
		a.printUser(u)
		return nil
	case "events":
		return a.listEvents(ctx)
	case "event":
		return a.showEvent(ctx, rest)
	case "coupons":
		return a.listCoupons(ctx, rest)
	case "create-coupon":
		return a.createCoupon(ctx, rest)
	case "courtesies":
		return a.listCourtesies(ctx, rest)
	case "send-courtesy":
		return a.sendCourtesy(ctx, rest)
	case "users":
		return a.searchUsers(ctx, rest)
	}
	return a.salesReport(ctx, rest)
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "e-mail do operador")
	password := fs.String("password", "", "senha")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Bem-vindo, %s (%s)\n", u.Name, u.Role)
	return nil
}

func (a *app) printUser(u model.User) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", u.ID)
	fmt.Fprintf(w, "Nome\t%s\n", u.Name)
	fmt.Fprintf(w, "E-mail\t%s\n", u.Email)
	fmt.Fprintf(w, "Perfil\t%s\n", u.Role)
	fmt.Fprintf(w, "Grupos\t%s\n", strings.Join(u.Groups, ", "))
	w.Flush()
}

func (a *app) listEvents(ctx context.Context) error {
	events, err := a.events.Active(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENTO\tDATA\tLOCAL\tSTATUS")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, formatDate(e.Date), place(e), e.Status)
	}
	return w.Flush()
}

func (a *app) showEvent(ctx context.Context, args []string) error {
	fs := newFlags("event")
	id := fs.String("id", "", "id do evento")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := a.events.Details(ctx, *id)
	if err != nil {
		return err
	}
	totals, err := a.events.EntryTotals(ctx, *id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Evento\t%s\n", e.Name)
	fmt.Fprintf(w, "Data\t%s\n", formatDate(e.Date))
	fmt.Fprintf(w, "Local\t%s\n", place(e))
	fmt.Fprintf(w, "Capacidade\t%d\n", e.Capacity)
	fmt.Fprintf(w, "Vendas ativas\t%t\n", e.SalesActive)
	fmt.Fprintf(w, "Ingressos\t%d\n", totals.TotalTickets)
	fmt.Fprintf(w, "Utilizados\t%d\n", totals.UsedTickets)
	fmt.Fprintf(w, "Restantes\t%d\n", totals.RemainingTickets)
	return w.Flush()
}

func (a *app) listCoupons(ctx context.Context, args []string) error {
	fs := newFlags("coupons")
	event := fs.String("event", "", "filtra por evento")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summaries, err := a.coupons.Summaries(ctx, *event)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CÓDIGO\tEVENTO\tVALOR\tVALIDADE\tUSO\tSTATUS")
	for _, s := range summaries {
		c := s.Coupon
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Code, c.EventName, formatDiscount(c), formatDate(c.ExpiresAt), formatUsage(s), s.Status)
	}
	return w.Flush()
}

func (a *app) createCoupon(ctx context.Context, args []string) error {
	fs := newFlags("create-coupon")
	var params model.CreateCouponParams
	var kind, expires string
	fs.StringVar(&params.EventID, "event", "", "id do evento")
	fs.StringVar(&params.Code, "code", "", "código do cupom")
	fs.Float64Var(&params.Value, "value", 0, "valor do desconto")
	fs.StringVar(&kind, "kind", string(model.DiscountPercentage), "percentage ou fixed")
	fs.StringVar(&expires, "expires", "", "validade AAAA-MM-DD")
	fs.IntVar(&params.UsageLimit, "limit", 0, "limite de usos do cupom")
	fs.IntVar(&params.ClientLimit, "client-limit", 1, "limite de usos por cliente")
	fs.StringVar(&params.Description, "description", "", "descrição")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params.DiscountKind = model.DiscountKind(kind)
	if expires != "" {
		t, err := time.Parse(time.DateOnly, expires)
		if err != nil {
			return fmt.Errorf("%w: validade deve estar no formato AAAA-MM-DD", model.ErrInvalidInput)
		}
		params.ExpiresAt = t
	}

	c, err := a.coupons.Create(ctx, params)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cupom %s criado\n", c.Code)
	return nil
}

func (a *app) listCourtesies(ctx context.Context, args []string) error {
	fs := newFlags("courtesies")
	event := fs.String("event", "", "filtra por evento")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summaries, err := a.courtesies.Summaries(ctx, *event)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENTO\tINGRESSO\tDESTINATÁRIO\tSTATUS")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.Courtesy.ID, s.Courtesy.Event.Name, s.TicketName, s.RecipientName, s.Status)
	}
	return w.Flush()
}

func (a *app) sendCourtesy(ctx context.Context, args []string) error {
	fs := newFlags("send-courtesy")
	var params model.SendCourtesyParams
	var to string
	fs.StringVar(&params.CourtesyID, "id", "", "id da cortesia")
	fs.IntVar(&params.Quantity, "quantity", 1, "quantidade")
	fs.StringVar(&to, "to", "", "destinatários separados por vírgula")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if to != "" {
		params.Recipients = strings.Split(to, ",")
	}

	msg, err := a.courtesies.Send(ctx, params)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *app) searchUsers(ctx context.Context, args []string) error {
	fs := newFlags("users")
	var filter model.UserFilter
	fs.StringVar(&filter.Name, "name", "", "nome")
	fs.StringVar(&filter.Email, "email", "", "e-mail")
	fs.StringVar(&filter.CPF, "cpf", "", "CPF")
	fs.IntVar(&filter.Limit, "limit", 0, "máximo de resultados")
	if err := fs.Parse(args); err != nil {
		return err
	}

	users, err := a.users.Search(ctx, filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tE-MAIL\tPERFIL")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return w.Flush()
}

func (a *app) salesReport(ctx context.Context, args []string) error {
	period := service.DefaultPeriod(a.now())
	fs := newFlags("report")
	fs.StringVar(&period.Start, "from", period.Start, "início AAAA-MM-DD")
	fs.StringVar(&period.End, "to", period.End, "fim AAAA-MM-DD")
	event := fs.String("event", "", "nome do evento")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *event != "" {
		row, err := a.reports.SalesForEvent(ctx, *event, period)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: %d ingressos, %s\n", row.Event, row.Quantity, formatMoney(row.Revenue))
		return nil
	}

	report, err := a.reports.Sales(ctx, period)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Período\t%s a %s\n", report.Period.Start, report.Period.End)
	fmt.Fprintln(w, "EVENTO\tQTD\tRECEITA")
	for _, row := range report.ByEvent {
		fmt.Fprintf(w, "%s\t%d\t%s\n", row.Event, row.Quantity, formatMoney(row.Revenue))
	}
	fmt.Fprintf(w, "Total\t%d\t%s\n", report.TotalSales, formatMoney(report.TotalRevenue))
	return w.Flush()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

func place(e model.Event) string {
	switch {
	case e.City != "" && e.State != "":
		return fmt.Sprintf("%s, %s/%s", e.Venue, e.City, e.State)
	case e.City != "":
		return fmt.Sprintf("%s, %s", e.Venue, e.City)
	}
	return e.Venue
}

func formatDiscount(c model.Coupon) string {
	if c.DiscountKind == model.DiscountFixed {
		return formatMoney(c.Value)
	}
	return fmt.Sprintf("%g%%", c.Value)
}

func formatUsage(s model.CouponSummary) string {
	if s.Coupon.PerCouponLimit == nil {
		return fmt.Sprintf("%d", s.Coupon.UsageCount)
	}
	return fmt.Sprintf("%d/%d (%.0f%%)", s.Coupon.UsageCount, *s.Coupon.PerCouponLimit, s.UsagePercent)
}

func formatMoney(v float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
