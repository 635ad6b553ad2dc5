package sqlinline

const QInsertDonation = `--sql 6f848608-8db3-4f38-8b69-650066adb488
insert into donations(id, receipt_no, name, phone, community, location, address, amount, payment_mode, inscription, donation_date, created_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, nullif($7::text, ''), $8::int, $9::text, $10::boolean, $11::timestamptz, now())
returning created_at;
`

const QUpdateDonation = `--sql 57ad37a4-17b7-405d-b8e3-3bc572a73609
update donations set
    name = $2::text,
    phone = $3::text,
    community = $4::text,
    location = $5::text,
    address = nullif($6::text, ''),
    amount = $7::int,
    payment_mode = $8::text,
    inscription = $9::boolean,
    donation_date = $10::timestamptz
where id = $1::uuid;
`

const QSelectDonationByID = `--sql ba6517f5-8f29-4b9f-9e6f-1fe9dc1c7160
select id::text, receipt_no, name, phone, community, location, coalesce(address, ''), amount, payment_mode, inscription, donation_date, created_at
from donations
where id = $1::uuid;
`

const QSelectDonationByReceipt = `--sql db1317dd-27c3-4a7e-b02e-7cd6f0dfc9d8
select id::text, receipt_no, name, phone, community, location, coalesce(address, ''), amount, payment_mode, inscription, donation_date, created_at
from donations
where receipt_no = $1::text;
`

const QDonationReceiptExists = `--sql 11a92109-9715-4ba0-a2d1-2760b80d9316
select exists(select 1 from donations where receipt_no = $1::text);
`

// QListDonations treats every null parameter as "no filter".
const QListDonations = `--sql 0145e249-9709-4c64-93fa-64987f8bcd2d
select id::text, receipt_no, name, phone, community, location, coalesce(address, ''), amount, payment_mode, inscription, donation_date, created_at
from donations
where ($1::timestamptz is null or coalesce(donation_date, created_at) >= $1::timestamptz)
  and ($2::timestamptz is null or coalesce(donation_date, created_at) <= $2::timestamptz)
  and ($3::text is null or community = $3::text)
  and ($4::text is null or payment_mode = $4::text)
  and ($5::bigint is null or amount >= $5::bigint)
  and ($6::bigint is null or amount <= $6::bigint)
  and ($7::text is null or phone = $7::text)
  and ($8::text is null or receipt_no = $8::text)
order by coalesce(donation_date, created_at) desc, created_at desc;
`

const QListDonationsByPhone = `--sql 2ca9d2a7-c669-4357-a41b-7ff448886edf
select id::text, receipt_no, name, phone, community, location, coalesce(address, ''), amount, payment_mode, inscription, donation_date, created_at
from donations
where phone = $1::text
order by coalesce(donation_date, created_at) desc, created_at desc;
`

// QSearchDonations expects $1 to be an escaped LIKE pattern body.
const QSearchDonations = `--sql ca4c7d4a-84f0-40d5-b2b5-a1d1c39af471
select id::text, receipt_no, name, phone, community, location, coalesce(address, ''), amount, payment_mode, inscription, donation_date, created_at
from donations
where ($1::text = '' or name ilike '%' || $1::text || '%' escape '\' or phone like '%' || $1::text || '%' escape '\')
  and ($2::text = '' or community = $2::text)
order by coalesce(donation_date, created_at) desc, created_at desc;
`

const QDeleteDonation = `--sql 5d482304-3507-455b-8f78-f8b74d24ac79
delete from donations where id = $1::uuid;
`

const QDeleteAllDonations = `--sql a4fa834a-b85b-4e54-b3f5-31a6f5788085
with removed as (
    delete from donations returning 1
)
delete from receipt_sequences;
`
