package dex

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"pairScope/internal/model"
)

var (
	testPairAddr    = common.HexToAddress("0x0000000000000000000000000000000000000101")
	testFactoryHex  = "0x00000000000000000000000000000000000000f1"
	testSenderAddr  = common.HexToAddress("0x0000000000000000000000000000000000000201")
	testReceiveAddr = common.HexToAddress("0x0000000000000000000000000000000000000202")
)

func addressTopic(addr common.Address) string {
	return common.BytesToHash(addr.Bytes()).Hex()
}

func packEventData(t *testing.T, args abi.Arguments, values ...interface{}) string {
	t.Helper()
	data, err := args.Pack(values...)
	if err != nil {
		t.Fatalf("pack event data: %v", err)
	}
	return hexutil.Encode(data)
}

func pairLog(topics []string, data string) model.LogRecord {
	return model.LogRecord{
		ChainID:     1,
		BlockNumber: 10008555,
		TxHash:      "0xabc",
		LogIndex:    7,
		Address:     testPairAddr.Hex(),
		Topics:      topics,
		Data:        data,
	}
}

func TestDecodeSync(t *testing.T) {
	pairABI, err := PairABI()
	if err != nil {
		t.Fatalf("pair abi: %v", err)
	}
	event := pairABI.Events["Sync"]

	decoder, err := NewPairDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}

	data := packEventData(t, event.Inputs.NonIndexed(), big.NewInt(400000), big.NewInt(100))
	typed, err := decoder.Decode(pairLog([]string{event.ID.Hex()}, data))
	if err != nil {
		t.Fatalf("decode sync: %v", err)
	}

	if typed.EventName != "Sync" {
		t.Fatalf("event name = %s", typed.EventName)
	}
	if typed.Address != testPairAddr.Hex() || typed.LogIndex != 7 {
		t.Fatalf("log metadata lost: %s / %d", typed.Address, typed.LogIndex)
	}
	decoded, ok := typed.Decoded.(model.SyncEventData)
	if !ok {
		t.Fatalf("decoded type = %T", typed.Decoded)
	}
	if decoded.Reserve0 != "400000" || decoded.Reserve1 != "100" {
		t.Fatalf("reserves = %s / %s", decoded.Reserve0, decoded.Reserve1)
	}
	if typed.Raw == nil || typed.Raw.Topic0 != event.ID.Hex() {
		t.Fatal("raw log reference missing")
	}
}

func TestDecodeSyncRejectsIndexedTopics(t *testing.T) {
	pairABI, _ := PairABI()
	event := pairABI.Events["Sync"]
	decoder, _ := NewPairDecoder()

	data := packEventData(t, event.Inputs.NonIndexed(), big.NewInt(1), big.NewInt(2))
	_, err := decoder.Decode(pairLog([]string{event.ID.Hex(), addressTopic(testSenderAddr)}, data))
	if err == nil {
		t.Fatal("expected error for unexpected indexed topic")
	}
}

func TestDecodeTransfer(t *testing.T) {
	pairABI, _ := PairABI()
	event := pairABI.Events["Transfer"]
	decoder, _ := NewPairDecoder()

	data := packEventData(t, event.Inputs.NonIndexed(), big.NewInt(12345))
	topics := []string{event.ID.Hex(), addressTopic(testSenderAddr), addressTopic(testReceiveAddr)}
	typed, err := decoder.Decode(pairLog(topics, data))
	if err != nil {
		t.Fatalf("decode transfer: %v", err)
	}

	decoded := typed.Decoded.(model.TransferEventData)
	if decoded.From != testSenderAddr.Hex() || decoded.To != testReceiveAddr.Hex() {
		t.Fatalf("parties = %s -> %s", decoded.From, decoded.To)
	}
	if decoded.Value != "12345" {
		t.Fatalf("value = %s", decoded.Value)
	}
}

func TestDecodeSwap(t *testing.T) {
	pairABI, _ := PairABI()
	event := pairABI.Events["Swap"]
	decoder, _ := NewPairDecoder()

	data := packEventData(t, event.Inputs.NonIndexed(),
		big.NewInt(1000), big.NewInt(0), big.NewInt(0), big.NewInt(997))
	topics := []string{event.ID.Hex(), addressTopic(testSenderAddr), addressTopic(testReceiveAddr)}
	typed, err := decoder.Decode(pairLog(topics, data))
	if err != nil {
		t.Fatalf("decode swap: %v", err)
	}

	decoded := typed.Decoded.(model.SwapEventData)
	if decoded.Amount0In != "1000" || decoded.Amount1In != "0" {
		t.Fatalf("amounts in = %s / %s", decoded.Amount0In, decoded.Amount1In)
	}
	if decoded.Amount0Out != "0" || decoded.Amount1Out != "997" {
		t.Fatalf("amounts out = %s / %s", decoded.Amount0Out, decoded.Amount1Out)
	}
	if decoded.Sender != testSenderAddr.Hex() || decoded.To != testReceiveAddr.Hex() {
		t.Fatalf("parties = %s -> %s", decoded.Sender, decoded.To)
	}
}

func TestDecodePairCreated(t *testing.T) {
	factoryABI, err := FactoryABI()
	if err != nil {
		t.Fatalf("factory abi: %v", err)
	}
	event := factoryABI.Events["PairCreated"]
	decoder, _ := NewPairDecoder()

	token0 := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	token1 := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	data := packEventData(t, event.Inputs.NonIndexed(), testPairAddr, big.NewInt(42))
	topics := []string{event.ID.Hex(), addressTopic(token0), addressTopic(token1)}

	log := pairLog(topics, data)
	log.Address = testFactoryHex
	typed, err := decoder.Decode(log)
	if err != nil {
		t.Fatalf("decode pair created: %v", err)
	}

	decoded := typed.Decoded.(model.PairCreatedEventData)
	if decoded.Token0 != token0.Hex() || decoded.Token1 != token1.Hex() {
		t.Fatalf("tokens = %s / %s", decoded.Token0, decoded.Token1)
	}
	if decoded.Pair != testPairAddr.Hex() {
		t.Fatalf("pair = %s", decoded.Pair)
	}
	if decoded.PairIndex != "42" {
		t.Fatalf("pair index = %s", decoded.PairIndex)
	}
}

func TestCanDecode(t *testing.T) {
	pairABI, _ := PairABI()
	decoder, _ := NewPairDecoder()

	if !decoder.CanDecode(pairABI.Events["Sync"].ID.Hex()) {
		t.Fatal("sync topic should be decodable")
	}
	upper := "0X" + pairABI.Events["Swap"].ID.Hex()[2:]
	if !decoder.CanDecode(upper) {
		t.Fatal("topic matching should be case-insensitive")
	}
	if decoder.CanDecode("0xdeadbeef") {
		t.Fatal("unknown topic should not be decodable")
	}
	if decoder.CanDecode("") {
		t.Fatal("empty topic should not be decodable")
	}
}
