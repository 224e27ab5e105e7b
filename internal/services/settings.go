package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"findash/internal/core"
	"findash/internal/log"
	"findash/internal/snapshot"
)

// Field identifies one editable value of the settings form.
type Field string

const (
	FieldUserName           Field = "user.name"
	FieldUserAvatar         Field = "user.avatar"
	FieldBalanceAmount      Field = "balance.amount"
	FieldBalanceCurrency    Field = "balance.currency"
	FieldBalancePeriod      Field = "balance.period"
	FieldSellsAmount        Field = "sells.amount"
	FieldSellsPeriod        Field = "sells.period"
	FieldRevenueAmount      Field = "revenue.amount"
	FieldRevenuePeriod      Field = "revenue.period"
	FieldPaymentsSuccessful Field = "payments.successful"
	// Goal fields address goals.items[Edit.Index].
	FieldGoalName        Field = "goals.name"
	FieldGoalDescription Field = "goals.description"
	FieldGoalPercentage  Field = "goals.percentage"
	FieldGoalColor       Field = "goals.color"
)

var (
	ErrUnknownField     = errors.New("unknown settings field")
	ErrInvalidValue     = errors.New("invalid settings value")
	ErrIndexOutOfRange  = errors.New("goal index out of range")
	ErrNoEdits          = errors.New("no edits given")
	errNonFiniteNumeric = errors.New("number must be finite")
)

// Fields lists every editable field in form order.
func Fields() []Field {
	return []Field{
		FieldUserName, FieldUserAvatar,
		FieldBalanceAmount, FieldBalanceCurrency, FieldBalancePeriod,
		FieldSellsAmount, FieldSellsPeriod,
		FieldRevenueAmount, FieldRevenuePeriod,
		FieldPaymentsSuccessful,
		FieldGoalName, FieldGoalDescription, FieldGoalPercentage, FieldGoalColor,
	}
}

// Indexed reports whether the field needs Edit.Index.
func (f Field) Indexed() bool {
	return strings.HasPrefix(string(f), "goals.")
}

// Edit sets one form field to a raw text value, as typed by the user.
type Edit struct {
	Field Field  `json:"field"`
	Index int    `json:"index,omitempty"`
	Value string `json:"value"`
}

// ApplyEdit applies e to d in place. Numbers are coerced from text (an
// empty string reads as 0) and periods are checked against core.Periods.
func ApplyEdit(d *core.FinanceData, e Edit) error {
	switch e.Field {
	case FieldUserName:
		d.User.Name = e.Value
	case FieldUserAvatar:
		d.User.Avatar = e.Value
	case FieldBalanceAmount:
		return setNumber(&d.Balance.Amount, e)
	case FieldBalanceCurrency:
		d.Balance.Currency = e.Value
	case FieldBalancePeriod:
		return setPeriod(&d.Balance.Period, e)
	case FieldSellsAmount:
		return setNumber(&d.Sells.Amount, e)
	case FieldSellsPeriod:
		return setPeriod(&d.Sells.Period, e)
	case FieldRevenueAmount:
		return setNumber(&d.Revenue.Amount, e)
	case FieldRevenuePeriod:
		return setPeriod(&d.Revenue.Period, e)
	case FieldPaymentsSuccessful:
		v, err := parseNumber(e)
		if err != nil {
			return err
		}
		// pending and percentage follow successful, as on the form.
		d.Payments.Successful = v
		d.Payments.Pending = 100 - v
		d.Payments.Percentage = v
	case FieldGoalName, FieldGoalDescription, FieldGoalPercentage, FieldGoalColor:
		if e.Index < 0 || e.Index >= len(d.Goals.Items) {
			return fmt.Errorf("%w: %d (have %d goals)", ErrIndexOutOfRange, e.Index, len(d.Goals.Items))
		}
		g := &d.Goals.Items[e.Index]
		switch e.Field {
		case FieldGoalName:
			g.Name = e.Value
		case FieldGoalDescription:
			g.Description = e.Value
		case FieldGoalPercentage:
			return setNumber(&g.Percentage, e)
		case FieldGoalColor:
			g.Color = e.Value
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, e.Field)
	}
	return nil
}

func parseNumber(e Edit) (float64, error) {
	s := strings.TrimSpace(e.Value)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errNonFiniteNumeric
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, e.Field, e.Value, err)
	}
	return v, nil
}

func setNumber(dst *float64, e Edit) error {
	v, err := parseNumber(e)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setPeriod(dst *core.Period, e Edit) error {
	p := core.Period(e.Value)
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidValue, e.Field, err)
	}
	*dst = p
	return nil
}

// SettingsService backs the settings form: it loads the snapshot, applies a
// batch of field edits to a draft and saves the whole record.
type SettingsService struct {
	store  *snapshot.Store[core.FinanceData]
	logger *log.Logger
}

func NewSettingsService(store *snapshot.Store[core.FinanceData], logger *log.Logger) *SettingsService {
	if logger == nil {
		logger = log.Discard()
	}
	return &SettingsService{store: store, logger: logger.WithComponent(log.ComponentSettings)}
}

// Current returns the snapshot the form starts from.
func (s *SettingsService) Current(ctx context.Context) (core.FinanceData, error) {
	return s.store.Get(ctx)
}

// ApplyEdits applies edits in order and saves the result. Either every edit
// is applied or nothing is written.
func (s *SettingsService) ApplyEdits(ctx context.Context, edits []Edit) (core.FinanceData, error) {
	if len(edits) == 0 {
		return core.FinanceData{}, ErrNoEdits
	}
	draft, err := s.store.Get(ctx)
	if err != nil {
		return core.FinanceData{}, fmt.Errorf("load settings: %w", err)
	}
	for i, e := range edits {
		if err := ApplyEdit(&draft, e); err != nil {
			return core.FinanceData{}, fmt.Errorf("edit %d: %w", i, err)
		}
	}
	if err := s.store.Save(ctx, draft); err != nil {
		return core.FinanceData{}, fmt.Errorf("save settings: %w", err)
	}
	s.logger.InfoContext(ctx, "Settings saved",
		log.FieldStorageKey, s.store.Key(),
		log.FieldEditCount, len(edits))
	return draft, nil
}

// Reset restores the default snapshot.
func (s *SettingsService) Reset(ctx context.Context) (core.FinanceData, error) {
	d, err := s.store.Reset(ctx)
	if err != nil {
		return core.FinanceData{}, fmt.Errorf("reset settings: %w", err)
	}
	s.logger.InfoContext(ctx, "Settings reset to defaults", log.FieldStorageKey, s.store.Key())
	return d, nil
}
