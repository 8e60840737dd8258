package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"campushub/backend/internal/dto"
)

func setupReservationService() (ReservationService, *testRepos) {
	repos := newTestRepos()
	svc := NewReservationService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func reservationReq(classroomID, date, start, end string) *dto.CreateReservationRequest {
	return &dto.CreateReservationRequest{
		ClassroomID:  classroomID,
		ReservedDate: date,
		StartTime:    start,
		EndTime:      end,
		Purpose:      "学术讲座",
	}
}

func TestReservationService_Create(t *testing.T) {
	svc, repos := setupReservationService()
	addRoom(repos, "room-1", "主楼", "101", 60)

	resp, conflicts, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "18:00", "20:00"), "user-1")
	if err != nil {
		t.Fatalf("CreateReservation: %v (conflicts=%+v)", err, conflicts)
	}
	if resp.ID == "" || resp.ReservedDate != "2024-09-02" || resp.StartTime != "18:00" {
		t.Errorf("resp = %+v", resp)
	}
	if _, ok := repos.reservation.reservations[resp.ID]; !ok {
		t.Error("预约未持久化")
	}
}

func TestReservationService_ConflictWithWeeklyEntry(t *testing.T) {
	svc, repos := setupReservationService()
	addRoom(repos, "room-1", "主楼", "101", 60)
	addSection(repos, "sec-1", "CS101", "程序设计", "A", 40, nil)
	// 每周一 08:00-09:30 有课；2024-09-02 是周一
	addEntry(repos, "entry-1", "sec-1", "room-1", 1, "08:00", "09:30")

	_, conflicts, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "09:00", "10:00"), "user-1")
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("err = %v, want ErrScheduleConflict", err)
	}
	if len(conflicts) != 1 || conflicts[0].Colliding == nil || conflicts[0].Colliding.ID != "entry-1" {
		t.Errorf("应指出与每周排课冲突: %+v", conflicts)
	}

	// 同一时段的周二（2024-09-03）没有课，可以预约
	_, _, err = svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-03", "09:00", "10:00"), "user-1")
	if err != nil {
		t.Errorf("其他日期不应受每周条目影响: %v", err)
	}
}

func TestReservationService_ConflictWithOtherReservation(t *testing.T) {
	svc, repos := setupReservationService()
	addRoom(repos, "room-1", "主楼", "101", 60)

	if _, _, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "18:00", "20:00"), "user-1"); err != nil {
		t.Fatalf("首个预约: %v", err)
	}

	_, conflicts, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "19:00", "21:00"), "user-2")
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("err = %v, want ErrScheduleConflict", err)
	}
	if len(conflicts) != 1 || conflicts[0].Kind != "room" {
		t.Errorf("conflicts = %+v", conflicts)
	}

	// 首尾相接允许
	if _, _, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "20:00", "21:00"), "user-2"); err != nil {
		t.Errorf("首尾相接的预约应允许: %v", err)
	}
}

func TestReservationService_CancelThenRebook(t *testing.T) {
	svc, repos := setupReservationService()
	addRoom(repos, "room-1", "主楼", "101", 60)

	resp, _, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "18:00", "20:00"), "user-1")
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	if err := svc.CancelReservation(context.Background(), resp.ID, "user-1"); err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}

	if _, _, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "18:00", "20:00"), "user-2"); err != nil {
		t.Errorf("取消后的时段应可重新预约: %v", err)
	}

	if err := svc.CancelReservation(context.Background(), resp.ID, "user-1"); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("重复取消 err = %v, want ErrReservationNotFound", err)
	}
}

func TestReservationService_Validation(t *testing.T) {
	svc, repos := setupReservationService()
	addRoom(repos, "room-1", "主楼", "101", 60)

	_, _, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "02/09/2024", "18:00", "20:00"), "user-1")
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}

	_, _, err = svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "20:00", "18:00"), "user-1")
	if !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("err = %v, want ErrInvalidInterval", err)
	}

	_, _, err = svc.CreateReservation(context.Background(), reservationReq("room-missing", "2024-09-02", "18:00", "20:00"), "user-1")
	if !errors.Is(err, ErrClassroomNotFound) {
		t.Errorf("err = %v, want ErrClassroomNotFound", err)
	}
}

func TestReservationService_List(t *testing.T) {
	svc, repos := setupReservationService()
	addRoom(repos, "room-1", "主楼", "101", 60)

	if _, _, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-02", "18:00", "20:00"), "user-1"); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, _, err := svc.CreateReservation(context.Background(), reservationReq("room-1", "2024-09-03", "18:00", "20:00"), "user-1"); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	list, err := svc.ListReservations(context.Background(), "room-1", "2024-09-02")
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(list) != 1 || list[0].ReservedDate != "2024-09-02" {
		t.Errorf("应只返回当天预约: %+v", list)
	}
}
