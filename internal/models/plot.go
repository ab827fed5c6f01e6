package models

// Status is the canonical occupancy status of a plot.
type Status string

// Plot statuses.
const (
	StatusAvailable Status = "Available"
	StatusOccupied  Status = "Occupied"
	StatusReserved  Status = "Reserved"
)

// Statuses lists every canonical status in display order.
var Statuses = []Status{StatusAvailable, StatusOccupied, StatusReserved}

// Legacy property keys consumed from the source datasets.
const (
	PropID          = "id"
	PropObjectID    = "OBJECTID"
	PropStatus      = "status"
	PropLotStatus   = "LOTSTATUS"
	PropName        = "name"
	PropFullName    = "FULL_NAME"
	PropFirstName   = "F_NAME"
	PropLastName    = "L_NAME"
	PropBurialDate  = "BURIALDATE"
	PropDOD         = "DOD"
	PropDateOfDeath = "DateOfDeath"
	PropSection     = "Section"
	PropSectionUC   = "SECTION"
	PropSec         = "Sec"
	PropBlock       = "BLOCK"
	PropLot         = "LOT"
	PropBurialType  = "Burial Type"
	PropBurialTyp   = "BURIAL_TYP"
	PropAge         = "AGE"
	PropFuneralHome = "FUNRL_HOME"
	PropPurchasers  = "PURCHASERS"
	PropReservedFor = "RESERVEDFOR"
	PropBook        = "BOOK"
	PropPage        = "PAGE"
	PropRemarks     = "REMARKS"
)

// Raw LOTSTATUS values.
const (
	LotStatusHasBurial = "Has Burial"
	LotStatusReserved  = "Reserved"
	LotStatusAvailable = "Available"
)
