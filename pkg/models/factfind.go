package models

import (
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/fieldmap"
)

// FactFind is the detailed client data-gathering form, the first of the
// two intake stages. Sections are built from the field-mapping categories;
// the raw submission is retained for re-extraction and persistence.
type FactFind struct {
	CaseInfo    map[string]any `json:"case_info"`
	ClientInfo  map[string]any `json:"client_info"`
	PartnerInfo map[string]any `json:"partner_info,omitempty"`

	EmploymentMain    map[string]any `json:"employment_main"`
	EmploymentPartner map[string]any `json:"employment_partner,omitempty"`

	HouseholdInfo        map[string]any `json:"household_info"`
	Assets               map[string]any `json:"assets"`
	Liabilities          map[string]any `json:"liabilities"`
	InvestmentProperties map[string]any `json:"investment_properties"`
	KiwiSaver            map[string]any `json:"kiwisaver"`

	ExistingInsuranceMain    map[string]any `json:"existing_insurance_main"`
	ExistingInsurancePartner map[string]any `json:"existing_insurance_partner"`

	MedicalMain    map[string]any `json:"medical_main"`
	MedicalPartner map[string]any `json:"medical_partner"`

	Children     map[string]any `json:"children"`
	Recreational map[string]any `json:"recreational"`

	NeedsLifeMain       map[string]any `json:"needs_life_main"`
	NeedsLifePartner    map[string]any `json:"needs_life_partner"`
	NeedsTraumaMain     map[string]any `json:"needs_trauma_main"`
	NeedsTraumaPartner  map[string]any `json:"needs_trauma_partner"`
	NeedsIncomeMain     map[string]any `json:"needs_income_main"`
	NeedsIncomePartner  map[string]any `json:"needs_income_partner"`
	NeedsAccident       map[string]any `json:"needs_accident"`
	NeedsMedicalMain    map[string]any `json:"needs_medical_main"`
	NeedsMedicalPartner map[string]any `json:"needs_medical_partner"`

	ScopeOfAdvice map[string]any `json:"scope_of_advice"`

	IsCouple bool      `json:"is_couple"`
	FormDate time.Time `json:"form_date"`

	Raw map[string]any `json:"-"`
}

// NewFactFind builds a FactFind from a raw submission using the mapper's
// categories. Malformed individual values are coerced, never rejected.
func NewFactFind(raw map[string]any, mapper *fieldmap.Mapper) *FactFind {
	all := mapper.ExtractAll(raw)

	ff := &FactFind{
		CaseInfo:   section(all, "admin"),
		ClientInfo: section(all, "client"),
		Raw:        raw,
	}

	if t, ok := ParseFormTime(ff.CaseInfo["form_date"]); ok {
		ff.FormDate = t
	} else {
		ff.FormDate = time.Now()
		ff.CaseInfo["form_date"] = ff.FormDate.Format(time.RFC3339)
	}

	parseCurrencyKeys(ff.ClientInfo, "annual_income")

	if partner := all["partner"]; len(partner) > 0 {
		ff.PartnerInfo = partner
		parseCurrencyKeys(ff.PartnerInfo, "annual_income")
	}

	ff.EmploymentMain = section(all, "employment_main")
	parseCurrencyKeys(ff.EmploymentMain, "annual_income", "commissions_bonuses", "unearned_income", "business_debt")
	if emp := all["employment_partner"]; len(emp) > 0 {
		ff.EmploymentPartner = emp
		parseCurrencyKeys(ff.EmploymentPartner, "annual_income", "commissions_bonuses", "unearned_income", "business_debt")
	}

	ff.HouseholdInfo = section(all, "household")
	parseCurrencyKeys(ff.HouseholdInfo, "current_house_value", "current_mortgage", "monthly_mortgage_repayments", "weekly_rent")

	ff.Assets = section(all, "assets")
	parseCurrencyContaining(ff.Assets, "value", "total")

	ff.Liabilities = section(all, "liabilities")
	parseCurrencyContaining(ff.Liabilities, "amount", "balance", "payment", "total", "mortgage", "loan", "debt")

	ff.InvestmentProperties = section(all, "investment_properties")
	parseCurrencyContaining(ff.InvestmentProperties, "value", "mortgage", "rent", "total", "debt", "equity")

	ff.KiwiSaver = section(all, "kiwisaver")
	parseCurrencyContaining(ff.KiwiSaver, "balance", "value", "total", "contribution")

	ff.ExistingInsuranceMain = section(all, "existing_insurance_main")
	parseCurrencyContaining(ff.ExistingInsuranceMain, "amount", "premium", "excess")

	ff.ExistingInsurancePartner = section(all, "existing_insurance_partner")
	parseCurrencyContaining(ff.ExistingInsurancePartner, "amount", "premium", "excess")

	ff.MedicalMain = section(all, "medical_main")
	ff.MedicalPartner = section(all, "medical_partner")

	ff.Children = section(all, "children")
	ff.Recreational = section(all, "recreational")

	ff.NeedsLifeMain = needsSection(all, "needs_life_main")
	ff.NeedsLifePartner = needsSection(all, "needs_life_partner")
	ff.NeedsTraumaMain = needsSection(all, "needs_trauma_main")
	ff.NeedsTraumaPartner = needsSection(all, "needs_trauma_partner")
	ff.NeedsIncomeMain = needsSection(all, "needs_income_main")
	ff.NeedsIncomePartner = needsSection(all, "needs_income_partner")
	ff.NeedsAccident = section(all, "needs_accident")
	ff.NeedsMedicalMain = needsSection(all, "needs_medical_main")
	ff.NeedsMedicalPartner = needsSection(all, "needs_medical_partner")

	ff.ScopeOfAdvice = section(all, "scope_of_advice")

	ff.IsCouple = len(ff.PartnerInfo) > 0 || CoupleFromFactFind(raw)

	return ff
}

// Email returns the client's email, falling back to the raw field when the
// mapping category did not capture one.
func (ff *FactFind) Email() string {
	if s, ok := ff.ClientInfo["email"].(string); ok && s != "" {
		return strings.TrimSpace(s)
	}
	if s, ok := fieldmap.LookupRaw(ff.Raw, "219").(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// CaseID returns the case identifier, if the submission carried one.
func (ff *FactFind) CaseID() string {
	if s := asString(ff.CaseInfo["case_id"]); s != "" {
		return s
	}
	return asString(fieldmap.LookupRaw(ff.Raw, "516"))
}

// ClientFullName joins the client's first and last names.
func (ff *FactFind) ClientFullName() string {
	return joinName(ff.ClientInfo["first_name"], ff.ClientInfo["last_name"])
}

// PartnerFullName joins the partner's names, empty when single.
func (ff *FactFind) PartnerFullName() string {
	if ff.PartnerInfo == nil {
		return ""
	}
	return joinName(ff.PartnerInfo["first_name"], ff.PartnerInfo["last_name"])
}

func section(all map[string]map[string]any, name string) map[string]any {
	if s := all[name]; s != nil {
		return s
	}
	return map[string]any{}
}

// needsNonCurrencyKeys are the needs-analysis fields that carry text or
// enumerations rather than dollar amounts.
var needsNonCurrencyKeys = map[string]bool{
	"needs_analysis_notes":     true,
	"income_type":              true,
	"loe_mrc_type":             true,
	"acc_offsets":              true,
	"wait_period_weeks":        true,
	"claim_period_years":       true,
	"leave_entitlements_weeks": true,
	"buyback_option":           true,
	"tpd_addon":                true,
}

func needsSection(all map[string]map[string]any, name string) map[string]any {
	s := section(all, name)
	for key, value := range s {
		if needsNonCurrencyKeys[key] {
			continue
		}
		if str, ok := value.(string); ok && str != "" {
			if f := ParseCurrency(str); f != nil {
				s[key] = *f
			} else {
				s[key] = nil
			}
		}
	}
	return s
}

func parseCurrencyKeys(section map[string]any, keys ...string) {
	for _, key := range keys {
		if v, ok := section[key]; ok {
			if f := ParseCurrency(v); f != nil {
				section[key] = *f
			} else {
				section[key] = nil
			}
		}
	}
}

func parseCurrencyContaining(section map[string]any, terms ...string) {
	for key, value := range section {
		for _, term := range terms {
			if strings.Contains(key, term) {
				if f := ParseCurrency(value); f != nil {
					section[key] = *f
				} else {
					section[key] = nil
				}
				break
			}
		}
	}
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func joinName(first, last any) string {
	return strings.TrimSpace(strings.TrimSpace(asString(first) + " " + asString(last)))
}
