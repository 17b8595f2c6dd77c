package repository

import (
	"gorm.io/gorm"

	"assistant-go/internal/model"
)

// PersonRepository defines persistence operations for address-book
// persons.
type PersonRepository interface {
	Create(person *model.Person) error
	FindByID(userID, personID uint) (*model.Person, error)
	FindByName(userID uint, name string) (*model.Person, error)
	List(userID uint) ([]model.Person, error)
	Update(person *model.Person) error
	Delete(userID, personID uint) error
}

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new PersonRepository instance.
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) Create(person *model.Person) error {
	return r.db.Create(person).Error
}

func (r *personRepository) FindByID(userID, personID uint) (*model.Person, error) {
	var person model.Person
	err := r.db.Where("id = ? AND user_id = ?", personID, userID).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByName matches the name case-insensitively, used to resolve the
// @name delegation reference from chat commands.
func (r *personRepository) FindByName(userID uint, name string) (*model.Person, error) {
	var person model.Person
	err := r.db.Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepository) List(userID uint) ([]model.Person, error) {
	var persons []model.Person
	err := r.db.Where("user_id = ?", userID).
		Order("name ASC").
		Find(&persons).Error
	return persons, err
}

func (r *personRepository) Update(person *model.Person) error {
	return r.db.Save(person).Error
}

func (r *personRepository) Delete(userID, personID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", personID, userID).
		Delete(&model.Person{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
