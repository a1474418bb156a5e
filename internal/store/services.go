package store

import "github.com/plowline/backoffice/internal/models"

func (s *Store) CreateService(svc *models.Service) error {
	return s.db.Create(svc).Error
}

func (s *Store) GetService(id uint) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, id).Error; err != nil {
		return nil, asStoreErr(err)
	}
	return &svc, nil
}

func (s *Store) ListServices() ([]models.Service, error) {
	var svcs []models.Service
	if err := s.db.Order("id").Find(&svcs).Error; err != nil {
		return nil, err
	}
	return svcs, nil
}

func (s *Store) UpdateService(svc *models.Service) error {
	res := s.db.Model(&models.Service{}).Where("id = ?", svc.ID).Updates(map[string]any{
		"name":        svc.Name,
		"description": svc.Description,
		"unit_price":  svc.UnitPrice,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteService(id uint) error {
	res := s.db.Delete(&models.Service{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
