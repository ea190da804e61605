package schemas

import (
	"github.com/shopspring/decimal"

	"go-ecommerce-api/models"
	"go-ecommerce-api/services"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AddressRequest struct {
	LineOne string `json:"lineOne" validate:"required"`
	LineTwo string `json:"lineTwo"`
	Pincode string `json:"pincode" validate:"required,len=5"`
	Country string `json:"country" validate:"required"`
	City    string `json:"city" validate:"required"`
}

func (r AddressRequest) Address() *models.Address {
	return &models.Address{
		LineOne: r.LineOne,
		LineTwo: r.LineTwo,
		Pincode: r.Pincode,
		Country: r.Country,
		City:    r.City,
	}
}

type UpdateUserRequest struct {
	Name                   *string `json:"name" validate:"omitempty,min=1"`
	DefaultShippingAddress *uint   `json:"defaultShippingAddress" validate:"omitempty,gt=0"`
	DefaultBillingAddress  *uint   `json:"defaultBillingAddress" validate:"omitempty,gt=0"`
}

func (r UpdateUserRequest) Changes() services.UserChanges {
	return services.UserChanges{
		Name:                   r.Name,
		DefaultShippingAddress: r.DefaultShippingAddress,
		DefaultBillingAddress:  r.DefaultBillingAddress,
	}
}

type ChangeRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=USER ADMIN"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0,lte=99999999.99,cents"`
	Tags        []string        `json:"tags" validate:"omitempty,dive,required,excludesall=0x2C"`
}

func (r CreateProductRequest) Product() *models.Product {
	tags := models.Tags(r.Tags)
	if tags == nil {
		tags = models.Tags{}
	}
	return &models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Tags:        tags,
	}
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0,lte=99999999.99,cents"`
	Tags        []string         `json:"tags" validate:"omitempty,dive,required,excludesall=0x2C"`
}

func (r UpdateProductRequest) Changes() services.ProductChanges {
	return services.ProductChanges{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Tags:        r.Tags,
	}
}

type AddCartItemRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0,lte=10000"`
}

type ChangeQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=10000"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=PENDING ACCEPTED OUT_FOR_DELIVERY DELIVERED CANCELLED"`
}
