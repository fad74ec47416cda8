package integration_test

const (
	// Room related constants
	TestRoomUID        = "ROOM_0f1d8e36-1c55-4a8e-9d0b-3c5a3f0b6a11"
	TestOtherRoomUID   = "ROOM_7a4c2b90-5e1f-4f7d-8c3a-9b2e6d1f0c22"
	TestRoomIdentifier = 5
	TestScreenSize     = "12.5"
	TestScreenType     = "IMAX"
	TestSeatConfig     = `[{"rowNumber":1,"lastColumnLetter":"F","preferentialSeatLetters":["C","D"]},{"rowNumber":2,"lastColumnLetter":"H","preferentialSeatLetters":[]}]`

	// Booking related constants
	TestBookingUID   = "BOOKING_4b8e1f3a-2c6d-4e9f-a1b7-5d3c9e8f7a33"
	TestScreeningUID = "SCREENING_9c2e5a7b-3d1f-4b8e-b6a4-1e7f3c9d2b44"
)
