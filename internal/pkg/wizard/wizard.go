package wizard

import (
	"errors"
	"regexp"

	"github.com/strompris-no/strompris-api/internal/pkg/model"
)

// Step is one of the four quote-wizard stages. Transitions are forward-only;
// there is no back-navigation, a session restarts with Reset.
type Step string

func (s Step) String() string {
	return string(s)
}

const (
	StepChooseProvider  Step = "choose_provider"
	StepChooseProduct   Step = "choose_product"
	StepEnterPostalCode Step = "enter_postal_code"
	StepShowComparison  Step = "show_comparison"
)

var (
	ErrInvalidTransition = errors.New("selection not valid in current step")
	ErrInvalidPostalCode = errors.New("postal code must be four digits")
)

var postalCodeRe = regexp.MustCompile(`^\d{4}$`)

// Session accumulates the visitor's selections for the "am I overpaying"
// test. It lives in memory for one request or browser session; nothing is
// persisted.
type Session struct {
	step Step

	Provider             model.ProviderInfo
	Product              model.Product
	PostalCode           string
	AnnualConsumptionKwh float64
}

func NewSession() *Session {
	return &Session{step: StepChooseProvider}
}

func (s *Session) Step() Step {
	return s.step
}

// SelectProvider advances choose_provider → choose_product.
func (s *Session) SelectProvider(provider model.ProviderInfo) error {
	if s.step != StepChooseProvider {
		return ErrInvalidTransition
	}
	s.Provider = provider
	s.step = StepChooseProduct
	return nil
}

// SelectProduct advances choose_product → enter_postal_code.
func (s *Session) SelectProduct(product model.Product) error {
	if s.step != StepChooseProduct {
		return ErrInvalidTransition
	}
	s.Product = product
	s.step = StepEnterPostalCode
	return nil
}

// EnterPostalCode advances enter_postal_code → show_comparison.
func (s *Session) EnterPostalCode(postalCode string) error {
	if s.step != StepEnterPostalCode {
		return ErrInvalidTransition
	}
	if !postalCodeRe.MatchString(postalCode) {
		return ErrInvalidPostalCode
	}
	s.PostalCode = postalCode
	s.step = StepShowComparison
	return nil
}

// Reset restarts the wizard, dropping all selections.
func (s *Session) Reset() {
	*s = Session{step: StepChooseProvider}
}
