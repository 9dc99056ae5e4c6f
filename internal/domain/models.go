package domain

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&Category{},
		&Course{},
		&Chapter{},
		&MuxData{},
		&Attachment{},
		&Purchase{},
		&UserProgress{},
		&StripeCustomer{},
	}
}
