package mapping

import (
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelDocument converts a domain Document to its table row shape.
func ToModelDocument(d domain.Document) models.Document {
	m := models.Document{
		DocumentID:          d.DocumentID,
		DocumentNumber:      d.DocumentNumber,
		Subject:             d.Subject,
		Department:          d.Department,
		Priority:            string(d.Priority),
		Status:              string(d.Status),
		Remarks:             d.Remarks,
		CurrentHolder:       d.CurrentHolder,
		CurrentSectionID:    d.CurrentSectionID,
		CurrentSubSectionID: d.CurrentSubSectionID,
		IsParked:            d.IsParked,
		ParkedBy:            d.ParkedBy,
		ParkedDate:          d.ParkedDate,
		ParkedReason:        d.ParkedReason,
		ReceivedDate:        d.ReceivedDate,
		ReceivedBy:          d.ReceivedBy,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
	if d.Bill != nil {
		b := d.Bill
		status := string(b.PaymentStatus)
		m.BillDate = b.BillDate
		m.VendorName = &b.VendorName
		m.VendorGSTIN = &b.VendorGSTIN
		m.BillAmount = decimalPtr(b.BillAmount)
		m.TaxableAmount = decimalPtr(b.TaxableAmount)
		m.GSTAmount = decimalPtr(b.GSTAmount)
		m.TDSAmount = decimalPtr(b.TDSAmount)
		m.OtherDeductions = decimalPtr(b.OtherDeductions)
		m.NetPayable = decimalPtr(b.NetPayable)
		m.PaymentStatus = &status
		m.PaymentDate = b.PaymentDate
		m.PaymentRef = &b.PaymentRef
	}
	if d.Letter != nil {
		l := d.Letter
		letterType := string(l.LetterType)
		m.LetterDate = l.LetterDate
		m.LetterType = &letterType
		m.Sender = &l.Sender
		m.SenderAddress = &l.SenderAddress
		m.Recipient = &l.Recipient
		m.ReplyRequired = &l.ReplyRequired
		m.ReplyDeadline = l.ReplyDeadline
		m.RepliedDate = l.RepliedDate
		m.ReplyRef = &l.ReplyRef
	}
	return m
}

// ToDomainDocument converts a table row to a domain Document of the given kind.
func ToDomainDocument(kind domain.DocumentKind, m models.Document) domain.Document {
	d := domain.Document{
		DocumentID:          m.DocumentID,
		Kind:                kind,
		DocumentNumber:      m.DocumentNumber,
		Subject:             m.Subject,
		Department:          m.Department,
		Priority:            domain.DocumentPriority(m.Priority),
		Status:              domain.DocumentStatus(m.Status),
		Remarks:             m.Remarks,
		CurrentHolder:       m.CurrentHolder,
		CurrentSectionID:    m.CurrentSectionID,
		CurrentSubSectionID: m.CurrentSubSectionID,
		IsParked:            m.IsParked,
		ParkedBy:            m.ParkedBy,
		ParkedDate:          m.ParkedDate,
		ParkedReason:        m.ParkedReason,
		ReceivedDate:        m.ReceivedDate,
		ReceivedBy:          m.ReceivedBy,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
	if kind == domain.KindBill {
		d.Bill = &domain.BillDetails{
			BillDate:        m.BillDate,
			VendorName:      strVal(m.VendorName),
			VendorGSTIN:     strVal(m.VendorGSTIN),
			BillAmount:      decimalVal(m.BillAmount),
			TaxableAmount:   decimalVal(m.TaxableAmount),
			GSTAmount:       decimalVal(m.GSTAmount),
			TDSAmount:       decimalVal(m.TDSAmount),
			OtherDeductions: decimalVal(m.OtherDeductions),
			NetPayable:      decimalVal(m.NetPayable),
			PaymentStatus:   domain.PaymentStatus(strVal(m.PaymentStatus)),
			PaymentDate:     m.PaymentDate,
			PaymentRef:      strVal(m.PaymentRef),
		}
	}
	if kind == domain.KindLetter {
		d.Letter = &domain.LetterDetails{
			LetterDate:    m.LetterDate,
			LetterType:    domain.LetterType(strVal(m.LetterType)),
			Sender:        strVal(m.Sender),
			SenderAddress: strVal(m.SenderAddress),
			Recipient:     strVal(m.Recipient),
			ReplyRequired: m.ReplyRequired != nil && *m.ReplyRequired,
			ReplyDeadline: m.ReplyDeadline,
			RepliedDate:   m.RepliedDate,
			ReplyRef:      strVal(m.ReplyRef),
		}
	}
	return d
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func decimalVal(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}
