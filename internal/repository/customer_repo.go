package repository

import (
	"errors"

	"carniceria/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	// FindOrCreateTx looks the customer up by the exact (phone, name) pair;
	// a nil phone matches only customers without phone — and creates it when absent.
	FindOrCreateTx(tx *gorm.DB, phone *string, name string) (*model.Customer, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) FindOrCreateTx(tx *gorm.DB, phone *string, name string) (*model.Customer, error) {
	q := tx.Where("name = ?", name)
	if phone == nil {
		q = q.Where("phone IS NULL")
	} else {
		q = q.Where("phone = ?", *phone)
	}

	var c model.Customer
	err := q.Order("created_at ASC").First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c = model.Customer{Name: name, Phone: phone, Address: ""}
	if err := tx.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
