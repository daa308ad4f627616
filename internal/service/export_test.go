package service

var BookingOps = bookingOps
