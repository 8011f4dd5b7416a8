package wizard

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/validation"
)

// Configurator steps, in order. Each one is filled by a part of the matching product type.
var ConfiguratorSteps = []StepID{
	StepID(enums.ProductTypeChassis),
	StepID(enums.ProductTypeCPUMobile),
	StepID(enums.ProductTypeRAMMobile),
	StepID(enums.ProductTypeStorage),
	StepID(enums.ProductTypeOS),
}

// Document flow steps.
const (
	StepTemplate     StepID = "template"
	StepDetails      StepID = "details"
	StepPhoto        StepID = "photo"
	StepOption       StepID = "option"
	StepInstructions StepID = "instructions"
	StepAttachment   StepID = "attachment"
	StepPayment      StepID = "payment"
	StepSuccess      StepID = "success"
)

// MaxAttachmentBytes caps photos and documents attached to a flow.
const MaxAttachmentBytes = 10 << 20

var (
	documentExtensions = map[string]struct{}{".doc": {}, ".docx": {}, ".pdf": {}, ".txt": {}}
)

// Attachment describes an uploaded file. Only metadata travels through the flow.
type Attachment struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"gt=0"`
}

func (a Attachment) isImage() bool {
	return strings.HasPrefix(strings.ToLower(a.ContentType), "image/")
}

func (a Attachment) isDocument() bool {
	_, ok := documentExtensions[strings.ToLower(filepath.Ext(a.Name))]
	return ok
}

func (a Attachment) valid() bool {
	return validation.Struct(a) == nil && a.Size <= MaxAttachmentBytes
}

// CVDetails is the data-entry step of the CV purchase flow. Only the full name is
// needed to move on.
type CVDetails struct {
	FullName        string `json:"full_name" validate:"required,max=120"`
	JobTitle        string `json:"job_title" validate:"max=120"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"max=32"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0,lte=60"`
	KeySkills       string `json:"key_skills" validate:"max=500"`
	Summary         string `json:"summary" validate:"max=2000"`
}

// RedactionInstructions is the free-text brief of a redaction request. It may be empty.
type RedactionInstructions struct {
	Text string `json:"text" validate:"max=5000"`
}

type productRef struct {
	ProductID string `json:"product_id"`
}

type templateRef struct {
	TemplateID string `json:"template_id"`
}

type optionRef struct {
	OptionID string `json:"option_id"`
}

type channelRef struct {
	Channel enums.PaymentChannel `json:"channel"`
}

// ConfiguratorDefinition builds the laptop configurator: one part per step, selecting a
// part moves to the next step, and the amount is the sum of the selected parts.
func ConfiguratorDefinition(store *catalog.Store) (*Definition, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog store is required")
	}
	b := NewBuilder(enums.WizardFlowConfigurator).AutoAdvance()
	for _, id := range ConfiguratorSteps {
		partType := enums.ProductType(id)
		b.Step(id, StepOptions{
			Validate: func(value any) bool {
				p, ok := value.(catalog.Product)
				if !ok || p.Type != partType {
					return false
				}
				_, exists := store.Product(p.ID)
				return exists
			},
			Decode: func(raw json.RawMessage) (any, error) {
				var ref productRef
				if err := decodeStrict(raw, &ref); err != nil {
					return nil, err
				}
				p, ok := store.Product(ref.ProductID)
				if !ok {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"product_id": ref.ProductID})
				}
				return p, nil
			},
		})
	}
	b.Amount(func(sel Selections) int64 {
		var total int64
		for _, id := range ConfiguratorSteps {
			if p, ok := Value[catalog.Product](sel, id); ok {
				total += p.Price
			}
		}
		return total
	})
	return b.Build()
}

// CVPurchaseDefinition builds the CV purchase flow: template, details, optional photo,
// payment, then the success screen. The amount is the template price.
func CVPurchaseDefinition(store *catalog.Store) (*Definition, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog store is required")
	}
	return NewBuilder(enums.WizardFlowCVPurchase).
		Step(StepTemplate, StepOptions{
			Validate: func(value any) bool {
				t, ok := value.(catalog.CVTemplate)
				if !ok {
					return false
				}
				_, exists := store.CVTemplate(t.ID)
				return exists
			},
			Decode: func(raw json.RawMessage) (any, error) {
				var ref templateRef
				if err := decodeStrict(raw, &ref); err != nil {
					return nil, err
				}
				t, ok := store.CVTemplate(ref.TemplateID)
				if !ok {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cv template not found").WithDetails(map[string]any{"template_id": ref.TemplateID})
				}
				return t, nil
			},
		}).
		Step(StepDetails, StepOptions{
			Validate: func(value any) bool {
				d, ok := value.(CVDetails)
				return ok && validation.StructExcept(d, "FullName") == nil
			},
			CanAdvance: func(sel Selections) bool {
				d, ok := Value[CVDetails](sel, StepDetails)
				if !ok {
					return false
				}
				d.FullName = strings.TrimSpace(d.FullName)
				return validation.Struct(d) == nil
			},
			Decode: func(raw json.RawMessage) (any, error) {
				var d CVDetails
				if err := decodeStrict(raw, &d); err != nil {
					return nil, err
				}
				return d, nil
			},
		}).
		Step(StepPhoto, StepOptions{
			Optional: true,
			Validate: func(value any) bool {
				a, ok := value.(Attachment)
				return ok && a.valid() && a.isImage()
			},
			Decode: decodeAttachment,
		}).
		Step(StepPayment, paymentStep()).
		Terminal(StepSuccess).
		Amount(func(sel Selections) int64 {
			if t, ok := Value[catalog.CVTemplate](sel, StepTemplate); ok {
				return t.Price
			}
			return 0
		}).
		Channel(selectedChannel).
		Build()
}

// RedactionRequestDefinition builds the writing-assistance flow: option, optional
// instructions, a mandatory attachment, payment, then the success screen. The amount is
// the option's base price.
func RedactionRequestDefinition(store *catalog.Store) (*Definition, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog store is required")
	}
	return NewBuilder(enums.WizardFlowRedactionRequest).
		Step(StepOption, StepOptions{
			Validate: func(value any) bool {
				o, ok := value.(catalog.RedactionOption)
				if !ok {
					return false
				}
				_, exists := store.RedactionOption(o.ID)
				return exists
			},
			Decode: func(raw json.RawMessage) (any, error) {
				var ref optionRef
				if err := decodeStrict(raw, &ref); err != nil {
					return nil, err
				}
				o, ok := store.RedactionOption(ref.OptionID)
				if !ok {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound, "redaction option not found").WithDetails(map[string]any{"option_id": ref.OptionID})
				}
				return o, nil
			},
		}).
		Step(StepInstructions, StepOptions{
			Optional: true,
			Validate: func(value any) bool {
				in, ok := value.(RedactionInstructions)
				return ok && validation.Struct(in) == nil
			},
			Decode: func(raw json.RawMessage) (any, error) {
				var in RedactionInstructions
				if err := decodeStrict(raw, &in); err != nil {
					return nil, err
				}
				return in, nil
			},
		}).
		Step(StepAttachment, StepOptions{
			Validate: func(value any) bool {
				a, ok := value.(Attachment)
				return ok && a.valid() && (a.isDocument() || a.isImage())
			},
			Decode: decodeAttachment,
		}).
		Step(StepPayment, paymentStep()).
		Terminal(StepSuccess).
		Amount(func(sel Selections) int64 {
			if o, ok := Value[catalog.RedactionOption](sel, StepOption); ok {
				return o.BasePrice
			}
			return 0
		}).
		Channel(selectedChannel).
		Build()
}

func paymentStep() StepOptions {
	return StepOptions{
		Validate: func(value any) bool {
			c, ok := value.(enums.PaymentChannel)
			return ok && c.IsValid()
		},
		Decode: func(raw json.RawMessage) (any, error) {
			var ref channelRef
			if err := decodeStrict(raw, &ref); err != nil {
				return nil, err
			}
			if _, err := enums.ParsePaymentChannel(string(ref.Channel)); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment channel")
			}
			return ref.Channel, nil
		},
	}
}

func selectedChannel(sel Selections) enums.PaymentChannel {
	c, _ := Value[enums.PaymentChannel](sel, StepPayment)
	return c
}

func decodeAttachment(raw json.RawMessage) (any, error) {
	var a Attachment
	if err := decodeStrict(raw, &a); err != nil {
		return nil, err
	}
	return a, nil
}

func decodeStrict(raw json.RawMessage, dest any) error {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid selection payload").WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}

// NewConfigurator opens a configurator flow. The usual submitter is CartSubmitter.
func NewConfigurator(store *catalog.Store, submitter Submitter, opts Options) (*Machine, error) {
	def, err := ConfiguratorDefinition(store)
	if err != nil {
		return nil, err
	}
	return NewMachine(def, submitter, opts)
}

// NewCVPurchase opens a CV purchase flow. The usual submitter is ChargeSubmitter.
func NewCVPurchase(store *catalog.Store, submitter Submitter, opts Options) (*Machine, error) {
	def, err := CVPurchaseDefinition(store)
	if err != nil {
		return nil, err
	}
	return NewMachine(def, submitter, opts)
}

// NewRedactionRequest opens a redaction request flow. The usual submitter is ChargeSubmitter.
func NewRedactionRequest(store *catalog.Store, submitter Submitter, opts Options) (*Machine, error) {
	def, err := RedactionRequestDefinition(store)
	if err != nil {
		return nil, err
	}
	return NewMachine(def, submitter, opts)
}
