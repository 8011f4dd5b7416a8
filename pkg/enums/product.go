package enums

import "fmt"

// ProductType tags catalog products for configurator matching and digital delivery.
type ProductType string

const (
	ProductTypeCPU         ProductType = "cpu"
	ProductTypeGPU         ProductType = "gpu"
	ProductTypeRAM         ProductType = "ram"
	ProductTypeStorage     ProductType = "storage"
	ProductTypeCase        ProductType = "case"
	ProductTypePSU         ProductType = "psu"
	ProductTypeMotherboard ProductType = "motherboard"
	ProductTypeCooling     ProductType = "cooling"
	ProductTypeOther       ProductType = "other"
	ProductTypeChassis     ProductType = "chassis"
	ProductTypeCPUMobile   ProductType = "cpu-mobile"
	ProductTypeRAMMobile   ProductType = "ram-mobile"
	ProductTypeOS          ProductType = "os"
	ProductTypeDigital     ProductType = "digital"
)

var validProductTypes = []ProductType{
	ProductTypeCPU,
	ProductTypeGPU,
	ProductTypeRAM,
	ProductTypeStorage,
	ProductTypeCase,
	ProductTypePSU,
	ProductTypeMotherboard,
	ProductTypeCooling,
	ProductTypeOther,
	ProductTypeChassis,
	ProductTypeCPUMobile,
	ProductTypeRAMMobile,
	ProductTypeOS,
	ProductTypeDigital,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}

// FileType is the delivery format of a digital product.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeXLSX FileType = "xlsx"
	FileTypeZIP  FileType = "zip"
)

var validFileTypes = []FileType{
	FileTypePDF,
	FileTypeDOCX,
	FileTypeXLSX,
	FileTypeZIP,
}

// String implements fmt.Stringer.
func (f FileType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FileType.
func (f FileType) IsValid() bool {
	for _, candidate := range validFileTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFileType converts raw input into a FileType.
func ParseFileType(value string) (FileType, error) {
	for _, candidate := range validFileTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid file type %q", value)
}
