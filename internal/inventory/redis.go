package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/metinatakli/cinema-booking-system/internal/domain"
	"github.com/redis/go-redis/v9"
)

// confirmFence is how long a verified hold is kept alive past its TTL while
// the coordinator persists the booked seats. It bounds the window between
// ConfirmHold and the final ReleaseHold.
const confirmFence = 2 * time.Minute

// acquireSeatsScript implements the all-or-nothing hold. Either every
// requested seat key is created with the holder token, or nothing changes and
// the conflicting seat labels are returned.
//
// KEYS = [hold set, hold record, active showtime set, seat keys...]
// ARGV = [token, ttl seconds, hold record JSON, showtime id, seat labels...]
var acquireSeatsScript = redis.NewScript(`
	local conflicts = {}

	for i = 4, #KEYS do
		if redis.call("EXISTS", KEYS[i]) == 1 then
			table.insert(conflicts, ARGV[i+1])
		end
	end

	if #conflicts > 0 then
		return conflicts
	end

	for i = 4, #KEYS do
		redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
		redis.call("SADD", KEYS[1], ARGV[i+1])
	end

	redis.call("SET", KEYS[2], ARGV[3], "EX", ARGV[2])
	redis.call("SADD", KEYS[3], ARGV[4])

	return {}
`)

// confirmHoldScript verifies that every seat key still belongs to the token
// and extends the whole hold by the confirm fence, in one atomic step. A
// reclaimed or competing hold surfaces as a "hold expired" error reply.
//
// KEYS = [hold record, seat keys...]
// ARGV = [token, fence seconds]
var confirmHoldScript = redis.NewScript(`
	if redis.call("EXISTS", KEYS[1]) == 0 then
		return {err = "hold expired"}
	end

	for i = 2, #KEYS do
		if redis.call("GET", KEYS[i]) ~= ARGV[1] then
			return {err = "hold expired"}
		end
	end

	redis.call("EXPIRE", KEYS[1], ARGV[2])

	for i = 2, #KEYS do
		redis.call("EXPIRE", KEYS[i], ARGV[2])
	end

	return "OK"
`)

// releaseHoldScript deletes the token's seat keys and set membership. Seat
// keys owned by another token are left untouched, which makes release safe to
// call after expiry and re-acquisition by someone else.
//
// KEYS = [hold record, hold set, seat keys...]
// ARGV = [token, seat labels...]
var releaseHoldScript = redis.NewScript(`
	for i = 3, #KEYS do
		if redis.call("GET", KEYS[i]) == ARGV[1] then
			redis.call("DEL", KEYS[i])
			redis.call("SREM", KEYS[2], ARGV[i-1])
		end
	end

	redis.call("DEL", KEYS[1])

	return "OK"
`)

// sweepExpiredScript prunes hold set members whose seat key has expired and
// returns the labels that are still held.
//
// KEYS = [hold set]
// ARGV = [showtime id]
var sweepExpiredScript = redis.NewScript(`
	local setKey = KEYS[1]
	local showtimeId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local heldSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local labels = result[2]

		for _, label in ipairs(labels) do
			local seatKey = "seat_hold:" .. showtimeId .. ":" .. label
			if redis.call("EXISTS", seatKey) == 0 then
				table.insert(expiredSeats, label)
			else
				table.insert(heldSeats, label)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return heldSeats
`)

// RedisSeatInventory keeps Held state in Redis, keyed per showtime and seat,
// and reads Booked state from the booking ledger. Every mutation is a single
// Lua script, so concurrent holds on overlapping seats serialize inside
// Redis and at most one wins.
type RedisSeatInventory struct {
	redis     redis.UniversalClient
	showtimes domain.ShowtimeRepository
	halls     domain.HallRepository
	bookings  domain.BookingRepository
}

func NewRedisSeatInventory(
	client redis.UniversalClient,
	showtimes domain.ShowtimeRepository,
	halls domain.HallRepository,
	bookings domain.BookingRepository) *RedisSeatInventory {

	return &RedisSeatInventory{
		redis:     client,
		showtimes: showtimes,
		halls:     halls,
		bookings:  bookings,
	}
}

func seatHoldKey(showtimeID int, label string) string {
	return fmt.Sprintf("seat_hold:%d:%s", showtimeID, label)
}

func holdSetKey(showtimeID int) string {
	return fmt.Sprintf("seat_holds:%d", showtimeID)
}

func holdRecordKey(token string) string {
	return fmt.Sprintf("hold:%s", token)
}

const activeShowtimesKey = "seat_holds:active"

type holdRecord struct {
	ShowtimeID int       `json:"showtime_id"`
	SeatLabels []string  `json:"seat_labels"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (inv *RedisSeatInventory) AttemptHold(
	ctx context.Context,
	showtimeID int,
	seatLabels []string,
	token string,
	ttl time.Duration) error {

	record := holdRecord{
		ShowtimeID: showtimeID,
		SeatLabels: seatLabels,
		ExpiresAt:  time.Now().Add(ttl),
	}

	recordBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(seatLabels)+3)
	keys = append(keys, holdSetKey(showtimeID), holdRecordKey(token), activeShowtimesKey)

	args := make([]interface{}, 0, len(seatLabels)+4)
	args = append(args, token, int(ttl.Seconds()), recordBytes, showtimeID)

	for _, label := range seatLabels {
		keys = append(keys, seatHoldKey(showtimeID, label))
		args = append(args, label)
	}

	conflicts, err := acquireSeatsScript.Run(ctx, inv.redis, keys, args...).StringSlice()
	if err != nil {
		return fmt.Errorf("failed to run acquire seats script: %w", err)
	}

	if len(conflicts) > 0 {
		return &domain.SeatUnavailableError{ConflictingSeats: conflicts}
	}

	// A seat moving Held -> Booked keeps its hold key until the booking row is
	// committed, so acquiring first and checking booked rows second leaves no
	// instant where a booked seat can be re-held.
	bookedSeats, err := inv.bookings.GetBookedSeatsByShowtime(ctx, showtimeID)
	if err != nil {
		inv.rollbackHold(ctx, token, showtimeID, seatLabels)
		return fmt.Errorf("failed to check booked seats: %w", err)
	}

	booked := make(map[string]bool, len(bookedSeats))
	for _, label := range bookedSeats {
		booked[label] = true
	}

	var conflicting []string
	for _, label := range seatLabels {
		if booked[label] {
			conflicting = append(conflicting, label)
		}
	}

	if len(conflicting) > 0 {
		inv.rollbackHold(ctx, token, showtimeID, seatLabels)
		return &domain.SeatUnavailableError{ConflictingSeats: conflicting}
	}

	return nil
}

func (inv *RedisSeatInventory) rollbackHold(ctx context.Context, token string, showtimeID int, seatLabels []string) {
	err := inv.releaseSeats(ctx, token, showtimeID, seatLabels)
	if err != nil {
		// The seat keys still expire on their own TTL.
		return
	}
}

func (inv *RedisSeatInventory) GetHold(ctx context.Context, token string) (*domain.Hold, error) {
	record, err := inv.getHoldRecord(ctx, token)
	if err != nil {
		return nil, err
	}

	return &domain.Hold{
		Token:      token,
		ShowtimeID: record.ShowtimeID,
		SeatLabels: record.SeatLabels,
		ExpiresAt:  record.ExpiresAt,
	}, nil
}

func (inv *RedisSeatInventory) getHoldRecord(ctx context.Context, token string) (*holdRecord, error) {
	recordBytes, err := inv.redis.Get(ctx, holdRecordKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrHoldNotFound
		}
		return nil, err
	}

	var record holdRecord
	err = json.Unmarshal(recordBytes, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal hold record: %w", err)
	}

	return &record, nil
}

func (inv *RedisSeatInventory) ConfirmHold(ctx context.Context, token string) (*domain.Hold, error) {
	record, err := inv.getHoldRecord(ctx, token)
	if err != nil {
		if err == domain.ErrHoldNotFound {
			return nil, domain.ErrHoldExpired
		}
		return nil, err
	}

	keys := make([]string, 0, len(record.SeatLabels)+1)
	keys = append(keys, holdRecordKey(token))
	for _, label := range record.SeatLabels {
		keys = append(keys, seatHoldKey(record.ShowtimeID, label))
	}

	err = confirmHoldScript.Run(ctx, inv.redis, keys, token, int(confirmFence.Seconds())).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "hold expired") {
			return nil, domain.ErrHoldExpired
		}
		return nil, fmt.Errorf("failed to run confirm hold script: %w", err)
	}

	return &domain.Hold{
		Token:      token,
		ShowtimeID: record.ShowtimeID,
		SeatLabels: record.SeatLabels,
		ExpiresAt:  time.Now().Add(confirmFence),
	}, nil
}

func (inv *RedisSeatInventory) ReleaseHold(ctx context.Context, token string) error {
	record, err := inv.getHoldRecord(ctx, token)
	if err != nil {
		if err == domain.ErrHoldNotFound {
			// Releasing an expired or unknown hold is a no-op.
			return nil
		}
		return err
	}

	return inv.releaseSeats(ctx, token, record.ShowtimeID, record.SeatLabels)
}

func (inv *RedisSeatInventory) releaseSeats(ctx context.Context, token string, showtimeID int, seatLabels []string) error {
	keys := make([]string, 0, len(seatLabels)+2)
	keys = append(keys, holdRecordKey(token), holdSetKey(showtimeID))

	args := make([]interface{}, 0, len(seatLabels)+1)
	args = append(args, token)

	for _, label := range seatLabels {
		keys = append(keys, seatHoldKey(showtimeID, label))
		args = append(args, label)
	}

	err := releaseHoldScript.Run(ctx, inv.redis, keys, args...).Err()
	if err != nil {
		return fmt.Errorf("failed to run release hold script: %w", err)
	}

	return nil
}

func (inv *RedisSeatInventory) GetSeatMap(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
	showtime, err := inv.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	hall, err := inv.halls.GetById(ctx, showtime.HallID)
	if err != nil {
		return nil, err
	}

	heldSeats, err := inv.sweep(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	bookedSeats, err := inv.bookings.GetBookedSeatsByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(heldSeats))
	for _, label := range heldSeats {
		held[label] = true
	}

	booked := make(map[string]bool, len(bookedSeats))
	for _, label := range bookedSeats {
		booked[label] = true
	}

	seatMap := &domain.SeatMap{
		ShowtimeID: showtimeID,
		HallID:     hall.ID,
		HallName:   hall.Name,
		MovieTitle: showtime.MovieTitle,
	}

	for row := 1; row <= hall.LayoutRows; row++ {
		for col := 1; col <= hall.LayoutCols; col++ {
			label := domain.SeatLabel(row, col)

			state := domain.SeatAvailable
			switch {
			case booked[label]:
				state = domain.SeatBooked
			case held[label]:
				state = domain.SeatHeld
			}

			seatMap.Seats = append(seatMap.Seats, domain.SeatStatus{
				Label: label,
				Row:   row,
				Col:   col,
				State: state,
			})
		}
	}

	return seatMap, nil
}

func (inv *RedisSeatInventory) sweep(ctx context.Context, showtimeID int) ([]string, error) {
	heldSeats, err := sweepExpiredScript.Run(ctx, inv.redis, []string{holdSetKey(showtimeID)}, showtimeID).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to run sweep script: %w", err)
	}

	return heldSeats, nil
}

func (inv *RedisSeatInventory) ReclaimExpired(ctx context.Context, showtimeID int) error {
	heldSeats, err := inv.sweep(ctx, showtimeID)
	if err != nil {
		return err
	}

	if len(heldSeats) == 0 {
		return inv.redis.SRem(ctx, activeShowtimesKey, showtimeID).Err()
	}

	return nil
}

func (inv *RedisSeatInventory) ActiveShowtimes(ctx context.Context) ([]int, error) {
	members, err := inv.redis.SMembers(ctx, activeShowtimesKey).Result()
	if err != nil {
		return nil, err
	}

	showtimeIDs := make([]int, 0, len(members))
	for _, member := range members {
		id, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		showtimeIDs = append(showtimeIDs, id)
	}

	return showtimeIDs, nil
}

func (inv *RedisSeatInventory) PurgeShowtimes(ctx context.Context, showtimeIDs []int) error {
	for _, showtimeID := range showtimeIDs {
		labels, err := inv.redis.SMembers(ctx, holdSetKey(showtimeID)).Result()
		if err != nil {
			return err
		}

		pipe := inv.redis.TxPipeline()

		for _, label := range labels {
			pipe.Del(ctx, seatHoldKey(showtimeID, label))
		}

		pipe.Del(ctx, holdSetKey(showtimeID))
		pipe.SRem(ctx, activeShowtimesKey, showtimeID)

		_, err = pipe.Exec(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}
