package store

import "github.com/plowline/backoffice/internal/models"

// Quotes and invoices are append-only; there are no update or delete
// operations on purpose.

func (s *Store) CreateQuote(q *models.Quote) error {
	return s.db.Create(q).Error
}

func (s *Store) GetQuote(id uint) (*models.Quote, error) {
	var q models.Quote
	if err := s.db.First(&q, id).Error; err != nil {
		return nil, asStoreErr(err)
	}
	return &q, nil
}

func (s *Store) ListQuotes() ([]models.Quote, error) {
	var qs []models.Quote
	if err := s.db.Order("id desc").Find(&qs).Error; err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *Store) CountQuotesByClient(clientID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Quote{}).Where("client_id = ?", clientID).Count(&n).Error
	return n, err
}

func (s *Store) CreateInvoice(inv *models.Invoice) error {
	return s.db.Create(inv).Error
}

func (s *Store) GetInvoice(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.First(&inv, id).Error; err != nil {
		return nil, asStoreErr(err)
	}
	return &inv, nil
}

func (s *Store) ListInvoices() ([]models.Invoice, error) {
	var invs []models.Invoice
	if err := s.db.Order("id desc").Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

func (s *Store) CountInvoicesByClient(clientID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Invoice{}).Where("client_id = ?", clientID).Count(&n).Error
	return n, err
}
