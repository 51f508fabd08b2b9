package profile

// Builtin returns the profiles shipped with the engine, keyed by name.
// Request configuration may add to or override these.
func Builtin() map[string]*Profile {
	profiles := []*Profile{extracto(), historico(), generic()}
	m := make(map[string]*Profile, len(profiles))
	for _, p := range profiles {
		// Built-ins are constructed here and always valid.
		if err := p.Validate(); err != nil {
			panic("invalid builtin profile: " + err.Error())
		}
		m[p.Name] = p
	}
	return m
}

// extracto matches the lattice-detected statement layout of Colombian bank
// PDFs: Fecha, Descripción, Sucursal, Doc, Valor, Saldo with day-first dates
// and comma thousands separators.
func extracto() *Profile {
	return &Profile{
		Name:         "extracto",
		Date:         ByIndex(0),
		Description:  ByIndex(1),
		Amount:       ByIndex(4),
		Balance:      ByIndex(5),
		DateLayouts:  []string{"02/01/2006", "2/1/2006", "02-01-2006", "2006-01-02"},
		ThousandsSep: ",",
		DecimalSep:   ".",
		MinCells:     3,
		FooterWords:  []string{"FECHA", "DESCRIPCIÓN", "SALDO INICIAL", "SALDO FINAL", "TOTAL"},
		Categories: []CategoryRule{
			{Name: "Ingresos", Pattern: `PAGO INTERBANC|ABONO|DEPÓSITO|NÓMINA|TRANSFERENCIA A FAVOR`},
			{Name: "Egresos", Pattern: `IMPUESTO|COMISIÓN|RETIRO|PAGO A PROVE|TRANSFERENCIA`},
			{Name: "Servicios", Pattern: `CUOTA MANEJO|SEGUROS|TARJETA|AGUA|LUZ|GAS`},
		},
		FallbackCategory: "Otros",
	}
}

// historico matches CSVs exported from prior sessions: header row with
// Fecha/Descripción/Valor columns located by keyword.
func historico() *Profile {
	return &Profile{
		Name:        "historico",
		Date:        ByHeader("fecha"),
		Description: ByHeader("descripci"),
		Amount:      ByHeader("valor"),
		DateLayouts: []string{"2006-01-02", "02/01/2006"},
		MinCells:    2,
	}
}

// generic matches English-language exports with a signed amount column or
// separate debit/credit columns resolved by header keyword.
func generic() *Profile {
	return &Profile{
		Name:         "generic",
		Date:         ByHeader("date"),
		Description:  ByHeader("description"),
		Amount:       ByHeader("amount"),
		DateLayouts:  []string{"2006-01-02", "01/02/2006"},
		ThousandsSep: ",",
		DecimalSep:   ".",
		MinCells:     2,
		FooterWords:  []string{"TOTAL", "BALANCE FORWARD"},
	}
}
