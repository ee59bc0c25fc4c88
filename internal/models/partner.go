package models

// Partner mirrors 'res.partner' (customer / supplier addresses)
type Partner struct {
	ID          int64      `gorm:"primaryKey;autoIncrement:false" json:"id" xmlrpc:"id"`
	Name        string     `gorm:"index" json:"name" xmlrpc:"name"`
	CompanyName OdooString `json:"company_name" xmlrpc:"company_name"`
	Ref         OdooString `gorm:"index" json:"ref" xmlrpc:"ref"`
	VAT         OdooString `json:"vat" xmlrpc:"vat"`
	Street      OdooString `json:"street" xmlrpc:"street"`
	Street2     OdooString `json:"street2" xmlrpc:"street2"`
	Zip         OdooString `json:"zip" xmlrpc:"zip"`
	City        OdooString `json:"city" xmlrpc:"city"`
	CountryCode string     `json:"country_code"`
	Phone       OdooString `json:"phone" xmlrpc:"phone"`
	Email       OdooString `json:"email" xmlrpc:"email"`

	// Supplier code used when pushing inbound forecasts
	MontaSupplierCode string `json:"monta_supplier_code"`
}

func (Partner) TableName() string {
	return "res_partner"
}
