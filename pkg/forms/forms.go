package forms

import (
	"fmt"

	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/registry"
	"github.com/doron007/realtechee-forms/pkg/validation"
)

// Form ids registered by the embedded definitions.
const (
	FormGetEstimate      = "get-estimate"
	FormGeneralInquiry   = "general-inquiry"
	FormGetQualified     = "get-qualified"
	FormAffiliateInquiry = "affiliate-inquiry"
)

// SchemaFor returns the validation schema matching a definition. Unknown
// ids get a bare schema carrying only the conditional gates.
func SchemaFor(def model.FormDefinition) *validation.Schema {
	switch def.ID {
	case FormGetEstimate:
		return GetEstimateSchema(def)
	case FormGeneralInquiry:
		return GeneralInquirySchema(def)
	case FormGetQualified:
		return GetQualifiedSchema(def)
	case FormAffiliateInquiry:
		return AffiliateInquirySchema(def)
	default:
		return validation.NewSchema(def)
	}
}

func definition(reg *registry.Registry, id string) (model.FormDefinition, error) {
	def, ok := reg.Form(id)
	if !ok {
		return model.FormDefinition{}, fmt.Errorf("forms: definition %q not registered", id)
	}
	return def, nil
}

func contactRules(schema *validation.Schema, root string, required bool) {
	if required {
		schema.Field(root+".fullName", validation.Required("Full name is required"))
		schema.Field(root+".email",
			validation.Required("Email is required"),
			validation.Email("Enter a valid email address"))
		schema.Field(root+".phone",
			validation.Required("Phone is required"),
			validation.Phone("Enter a 10 digit phone number"))
		return
	}
	schema.Field(root+".email", validation.Email("Enter a valid email address"))
	schema.Field(root+".phone", validation.Phone("Enter a 10 digit phone number"))
}

func addressRules(schema *validation.Schema, root string) {
	schema.Field(root+".streetAddress", validation.Required("Street address is required"))
	schema.Field(root+".city", validation.Required("City is required"))
	schema.Field(root+".state", validation.Required("State is required"))
	schema.Field(root+".zip",
		validation.Required("Zip is required"),
		validation.Zip("Enter a valid zip code"))
}

// GetEstimateSchema builds the validation schema for the Get an Estimate
// form. Visit date and time are only enforced when the meeting choice is
// not "upload"; the custom brokerage only when "Other" is selected.
func GetEstimateSchema(def model.FormDefinition) *validation.Schema {
	schema := validation.NewSchema(def)

	schema.Field("relationToProperty", validation.Required("Select your relation to the property"))
	addressRules(schema, "propertyAddress")
	schema.Field("brokerage", validation.Required("Select a brokerage"))
	schema.Field("customBrokerage", validation.Required("Enter your brokerage name"))
	contactRules(schema, "agentInfo", true)
	contactRules(schema, "homeownerInfo", false)
	schema.Field("rtDigitalSelection",
		validation.Required("Pick how you would like to meet"),
		validation.OneOf([]string{"upload", "video-call", "in-person"}, "Pick how you would like to meet"))
	schema.Field("requestedVisitDateTime", validation.Required("Pick a preferred date"))
	schema.Field("requestedVisitTime", validation.Required("Pick a preferred time"))
	schema.Field("notes", validation.MaxLength(2000, "Keep notes under 2000 characters"))
	schema.Field("needFinance", validation.OneOf([]string{"true", "false"}, "Answer yes or no"))

	return schema
}

// NewGetEstimate builds the Get an Estimate controller: focus walks the
// page top to bottom, and the custom brokerage camel-cases on blur.
func NewGetEstimate(reg *registry.Registry, onSubmit SubmitFunc, options ...Option) (*Controller, error) {
	def, err := definition(reg, FormGetEstimate)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithFocusPriority(
			"relationToProperty",
			"propertyAddress.streetAddress",
			"propertyAddress.city",
			"propertyAddress.zip",
			"brokerage",
			"customBrokerage",
			"agentInfo.fullName",
			"agentInfo.email",
			"agentInfo.phone",
			"rtDigitalSelection",
			"requestedVisitDateTime",
			"requestedVisitTime",
		),
		WithBlurHook("customBrokerage", CamelCase),
	}
	return NewController(def, GetEstimateSchema(def), onSubmit, append(base, options...)...)
}

// GeneralInquirySchema builds the validation schema for General Inquiry.
func GeneralInquirySchema(def model.FormDefinition) *validation.Schema {
	schema := validation.NewSchema(def)

	contactRules(schema, "contactInfo", true)
	addressRules(schema, "address")
	schema.Field("product", validation.Required("Select a product"))
	schema.Field("subject", validation.Required("Subject is required"))
	schema.Field("message",
		validation.Required("Message is required"),
		validation.MaxLength(2000, "Keep the message under 2000 characters"))

	return schema
}

// NewGeneralInquiry builds the General Inquiry controller.
func NewGeneralInquiry(reg *registry.Registry, onSubmit SubmitFunc, options ...Option) (*Controller, error) {
	def, err := definition(reg, FormGeneralInquiry)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithFocusPriority(
			"contactInfo.fullName",
			"contactInfo.email",
			"contactInfo.phone",
			"address.streetAddress",
			"address.city",
			"address.zip",
			"product",
			"subject",
			"message",
		),
	}
	return NewController(def, GeneralInquirySchema(def), onSubmit, append(base, options...)...)
}

// GetQualifiedSchema builds the validation schema for Get Qualified.
func GetQualifiedSchema(def model.FormDefinition) *validation.Schema {
	schema := validation.NewSchema(def)

	contactRules(schema, "agentInfo", true)
	schema.Field("licenseNumber",
		validation.Required("License number is required"),
		validation.MaxLength(20, "License number is too long"))
	schema.Field("brokerage", validation.Required("Select a brokerage"))
	schema.Field("customBrokerage", validation.Required("Enter your brokerage name"))
	schema.Field("yearsExperience", validation.Required("Select your years of experience"))
	schema.Field("recentTransactions", validation.Required("Select a transaction range"))
	schema.Field("primaryMarkets", validation.MaxLength(500, "Keep primary markets under 500 characters"))

	return schema
}

// NewGetQualified builds the Get Qualified controller.
func NewGetQualified(reg *registry.Registry, onSubmit SubmitFunc, options ...Option) (*Controller, error) {
	def, err := definition(reg, FormGetQualified)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithFocusPriority(
			"agentInfo.fullName",
			"agentInfo.email",
			"agentInfo.phone",
			"licenseNumber",
			"brokerage",
			"customBrokerage",
			"yearsExperience",
			"recentTransactions",
		),
		WithBlurHook("customBrokerage", CamelCase),
	}
	return NewController(def, GetQualifiedSchema(def), onSubmit, append(base, options...)...)
}

// AffiliateInquirySchema builds the validation schema for Affiliate
// Inquiry. The contractor license and workers compensation answers are only
// enforced for licensed general contractors.
func AffiliateInquirySchema(def model.FormDefinition) *validation.Schema {
	schema := validation.NewSchema(def)

	contactRules(schema, "contactInfo", true)
	addressRules(schema, "address")
	schema.Field("companyName", validation.Required("Company name is required"))
	schema.Field("serviceType", validation.Required("Select a service type"))
	schema.Field("isGeneralContractor",
		validation.Required("Answer yes or no"),
		validation.OneOf([]string{"true", "false"}, "Answer yes or no"))
	schema.Field("contractorLicense", validation.Required("License number is required"))
	schema.Field("workersCompensation", validation.Required("Answer yes or no"))

	return schema
}

// NewAffiliateInquiry builds the Affiliate Inquiry controller.
func NewAffiliateInquiry(reg *registry.Registry, onSubmit SubmitFunc, options ...Option) (*Controller, error) {
	def, err := definition(reg, FormAffiliateInquiry)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithFocusPriority(
			"contactInfo.fullName",
			"contactInfo.email",
			"contactInfo.phone",
			"address.streetAddress",
			"companyName",
			"serviceType",
			"isGeneralContractor",
			"contractorLicense",
			"workersCompensation",
		),
	}
	return NewController(def, AffiliateInquirySchema(def), onSubmit, append(base, options...)...)
}
