package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tg_pizzeria/internal/application/feed"
	"tg_pizzeria/internal/config"
	domain "tg_pizzeria/internal/domain/order"
	"tg_pizzeria/internal/infrastructure/encoding/avro"
	"tg_pizzeria/internal/infrastructure/http/intake"
	kafkainfra "tg_pizzeria/internal/infrastructure/messaging/kafka"
	"tg_pizzeria/pkg/logger"
)

func main() {
	password := flag.String("password", "", "admin password (prompted when omitted)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	if !checkPassword(cfg.Admin.Password, *password) {
		fmt.Fprintln(os.Stderr, "Fel lösenord")
		os.Exit(1)
	}

	zlog, err := logger.NewZapFileLogger("admin.log")
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := intake.NewClient(cfg.Admin)

	f := feed.New(client, zlog, nil, bell, feed.Config{
		PollInterval: cfg.Admin.PollInterval,
		AlertTTL:     cfg.Admin.AlertTTL,
	})
	ctrl := feed.NewController(client, zlog)

	if err := f.Bootstrap(ctx); err != nil {
		zlog.Warn("initial fetch failed", logger.Error(err))
	}

	codec, err := avro.NewCodec()
	if err != nil {
		log.Fatalf("avro codec failed: %v", err)
	}
	consumer := kafkainfra.NewChangeConsumer(cfg.Kafka, codec, f, zlog, nil)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			zlog.Warn("change subscription stopped", logger.Error(err))
		}
	}()
	defer consumer.Close()

	go func() {
		if err := f.Run(ctx); err != nil {
			zlog.Warn("poll loop stopped", logger.Error(err))
		}
	}()

	p := tea.NewProgram(newModel(f, ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("dashboard failed: %v", err)
	}
}

// checkPassword compares against the shared admin password, prompting on
// stdin when no flag was given. Not a security boundary.
func checkPassword(expected, given string) bool {
	if given == "" {
		fmt.Print("Lösenord: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		given = strings.TrimSpace(line)
	}
	return given == expected
}

// bell rings the terminal bell for a new-order alert.
func bell() {
	fmt.Fprint(os.Stdout, "\a")
}

/* ================= dashboard UI ================= */

var orderStatusCycle = []string{
	domain.StatusPending,
	domain.StatusPreparing,
	domain.StatusReady,
	domain.StatusDelivered,
	domain.StatusCancelled,
}

var paymentStatusCycle = []string{
	domain.PaymentPending,
	domain.PaymentPaid,
	domain.PaymentFailed,
}

var orderStatusLabels = map[string]string{
	domain.StatusPending:   "Väntar",
	domain.StatusPreparing: "Tillagas",
	domain.StatusReady:     "Klar",
	domain.StatusDelivered: "Levererad",
	domain.StatusCancelled: "Avbruten",
}

var paymentStatusLabels = map[string]string{
	domain.PaymentPending: "Ej betald",
	domain.PaymentPaid:    "Betald",
	domain.PaymentFailed:  "Misslyckad",
}

type model struct {
	feed   *feed.Feed
	ctrl   *feed.Controller
	orders []domain.Order
	cursor int
	errMsg string
}

type feedChanged struct{}

type patchDone struct {
	err error
}

type refreshDone struct {
	err error
}

func newModel(f *feed.Feed, ctrl *feed.Controller) model {
	return model{
		feed:   f,
		ctrl:   ctrl,
		orders: f.Snapshot(),
	}
}

func waitForUpdate(f *feed.Feed) tea.Cmd {
	return func() tea.Msg {
		<-f.Updates()
		return feedChanged{}
	}
}

func (m model) Init() tea.Cmd {
	return waitForUpdate(m.feed)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.orders)-1 {
				m.cursor++
			}
		case "s":
			return m, m.patchSelected(feed.FieldOrderStatus)
		case "p":
			return m, m.patchSelected(feed.FieldPaymentStatus)
		case "r":
			f := m.feed
			return m, func() tea.Msg {
				return refreshDone{err: f.Refresh(context.Background())}
			}
		}
	case feedChanged:
		m.orders = m.feed.Snapshot()
		if m.cursor >= len(m.orders) && m.cursor > 0 {
			m.cursor = len(m.orders) - 1
		}
		return m, waitForUpdate(m.feed)
	case patchDone:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Uppdatering misslyckades: %v", msg.err)
		} else {
			m.errMsg = ""
		}
	case refreshDone:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Kunde inte hämta beställningar: %v", msg.err)
		} else {
			m.errMsg = ""
		}
	}
	return m, nil
}

// patchSelected advances the chosen field of the selected order to the next
// value in its cycle. The mirror is not touched here; the change comes back
// through the push or poll channel.
func (m model) patchSelected(field feed.Field) tea.Cmd {
	if len(m.orders) == 0 {
		return nil
	}
	o := m.orders[m.cursor]
	if m.ctrl.InFlight(o.ID) {
		return nil
	}

	var value string
	switch field {
	case feed.FieldOrderStatus:
		value = nextInCycle(orderStatusCycle, o.OrderStatus)
	case feed.FieldPaymentStatus:
		value = nextInCycle(paymentStatusCycle, o.PaymentStatus)
	}

	ctrl := m.ctrl
	return func() tea.Msg {
		return patchDone{err: ctrl.UpdateStatus(context.Background(), o.ID, field, value)}
	}
}

func nextInCycle(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m model) View() string {
	b := &strings.Builder{}

	conn := "○ Frånkopplad (pollar var 30:e sekund)"
	if m.feed.Connected() {
		conn = "● Live"
	}
	fmt.Fprintf(b, "TG Pizzeria — Beställningar    %s\n", conn)

	if last := m.feed.LastUpdate(); !last.IsZero() {
		fmt.Fprintf(b, "Senast uppdaterad: %s\n", last.Format("15:04:05"))
	}
	if m.feed.Alert() {
		fmt.Fprintln(b, "\n  *** NY BESTÄLLNING! ***")
	}
	if m.errMsg != "" {
		fmt.Fprintf(b, "\n  %s (tryck r för att försöka igen)\n", m.errMsg)
	}
	fmt.Fprintln(b)

	if len(m.orders) == 0 {
		fmt.Fprintln(b, "  Inga beställningar ännu.")
	}

	for i, o := range m.orders {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		busy := ""
		if m.ctrl.InFlight(o.ID) {
			busy = " …"
		}
		fmt.Fprintf(b, " %s %s  %-20s %7.0f kr  %-10s %-10s %s%s\n",
			marker,
			o.OrderNumber,
			truncate(o.CustomerName, 20),
			o.TotalAmount,
			paymentStatusLabels[o.PaymentStatus],
			orderStatusLabels[o.OrderStatus],
			o.CreatedAt.Local().Format("02 Jan 15:04"),
			busy,
		)
	}

	fmt.Fprintln(b, "\nControls: up/down select, s order status, p payment status, r refresh, q quit")
	return b.String()
}

// truncate shortens s to n display runes. Byte slicing would split
// multi-byte characters like å/ä/ö in customer names.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
